package domain

import "github.com/shopspring/decimal"

// CurrencyPlaces is the precision every stored amount is rounded to.
const CurrencyPlaces = 2

func init() {
	// amounts are rendered as JSON numbers, as API clients expect
	decimal.MarshalJSONWithoutQuotes = true
}

// BookingTotal returns pricePerPerson * people rounded to currency precision.
func BookingTotal(pricePerPerson decimal.Decimal, people int) decimal.Decimal {
	return pricePerPerson.Mul(decimal.NewFromInt(int64(people))).Round(CurrencyPlaces)
}

// ChargeAmount caps the amount sent to the gateway. A nil cap charges the full total.
func ChargeAmount(total decimal.Decimal, limit *decimal.Decimal) decimal.Decimal {
	if limit != nil && limit.LessThan(total) {
		return *limit
	}
	return total
}
