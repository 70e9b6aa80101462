package payment

import "tourism/internal/domain"

type PaymentListResponse struct {
	Payments []domain.Payment `json:"payments"`
	Count    int              `json:"count"`
}
