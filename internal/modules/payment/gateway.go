package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	// SuccessCode is the only WaafiPay response code treated as a completed charge.
	SuccessCode = "2001"

	CodeNetworkError    = "NETWORK_ERROR"
	CodeInvalidResponse = "INVALID_RESPONSE"
	CodeProcessingError = "PAYMENT_PROCESSING_ERROR"

	defaultFailureMsg = "Payment failed"
	maxResponseBytes  = 1 << 20
)

type ChargeRequest struct {
	Amount         decimal.Decimal
	PayerAccountNo string
	Description    string
	ReferenceID    string
}

type ChargeData struct {
	ReferenceID         string `json:"referenceId"`
	TransactionID       string `json:"transactionId"`
	IssuerTransactionID string `json:"issuerTransactionId"`
	State               string `json:"state"`
	ResponseCode        string `json:"responseCode"`
	ResponseMsg         string `json:"responseMsg"`
	MerchantCharges     string `json:"merchantCharges"`
	TxAmount            string `json:"txAmount"`
}

type ChargeError struct {
	ResponseCode string `json:"responseCode"`
	ResponseMsg  string `json:"responseMsg"`
}

// ChargeResult is the normalized outcome of one charge attempt. Exactly one
// of Data and Error is set.
type ChargeResult struct {
	Success bool         `json:"success"`
	Data    *ChargeData  `json:"data,omitempty"`
	Error   *ChargeError `json:"error,omitempty"`
}

func Failure(code, msg string) ChargeResult {
	return ChargeResult{Error: &ChargeError{ResponseCode: code, ResponseMsg: msg}}
}

// Gateway charges a payer synchronously. Implementations never return Go
// errors; every failure is folded into the result.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) ChargeResult
}

type WaafiConfig struct {
	MerchantUID string
	APIUserID   string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
}

// WaafiGateway talks to the WaafiPay API_PURCHASE endpoint.
type WaafiGateway struct {
	cfg    WaafiConfig
	client *http.Client
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewWaafiGateway(cfg WaafiConfig, log logrus.FieldLogger) *WaafiGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WaafiGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
		now:    time.Now,
	}
}

type waafiRequest struct {
	SchemaVersion string             `json:"schemaVersion"`
	RequestID     string             `json:"requestId"`
	Timestamp     string             `json:"timestamp"`
	ChannelName   string             `json:"channelName"`
	ServiceName   string             `json:"serviceName"`
	ServiceParams waafiServiceParams `json:"serviceParams"`
}

type waafiServiceParams struct {
	MerchantUID     string               `json:"merchantUid"`
	APIUserID       string               `json:"apiUserId"`
	APIKey          string               `json:"apiKey"`
	PaymentMethod   string               `json:"paymentMethod"`
	PayerInfo       waafiPayerInfo       `json:"payerInfo"`
	TransactionInfo waafiTransactionInfo `json:"transactionInfo"`
}

type waafiPayerInfo struct {
	AccountNo string `json:"accountNo"`
}

type waafiTransactionInfo struct {
	ReferenceID string      `json:"referenceId"`
	InvoiceID   string      `json:"invoiceId"`
	Amount      json.Number `json:"amount"`
	Currency    string      `json:"currency"`
	Description string      `json:"description"`
}

type waafiResponse struct {
	ResponseCode flexString `json:"responseCode"`
	ResponseMsg  flexString `json:"responseMsg"`
	Params       struct {
		ReferenceID         flexString `json:"referenceId"`
		TransactionID       flexString `json:"transactionId"`
		IssuerTransactionID flexString `json:"issuerTransactionId"`
		State               flexString `json:"state"`
		MerchantCharges     flexString `json:"merchantCharges"`
		TxAmount            flexString `json:"txAmount"`
	} `json:"params"`
}

// flexString accepts JSON strings, numbers and null. The gateway is not
// consistent about quoting numeric fields.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	*f = flexString(s)
	return nil
}

func (g *WaafiGateway) buildRequest(req ChargeRequest) waafiRequest {
	return waafiRequest{
		SchemaVersion: "1.0",
		RequestID:     "REQ_" + uuid.NewString(),
		Timestamp:     g.now().UTC().Format(time.RFC3339Nano),
		ChannelName:   "WEB",
		ServiceName:   "API_PURCHASE",
		ServiceParams: waafiServiceParams{
			MerchantUID:   g.cfg.MerchantUID,
			APIUserID:     g.cfg.APIUserID,
			APIKey:        g.cfg.APIKey,
			PaymentMethod: "mwallet_account",
			PayerInfo:     waafiPayerInfo{AccountNo: req.PayerAccountNo},
			TransactionInfo: waafiTransactionInfo{
				ReferenceID: req.ReferenceID,
				InvoiceID:   "INV_" + req.ReferenceID,
				Amount:      json.Number(req.Amount.StringFixed(2)),
				Currency:    "USD",
				Description: req.Description,
			},
		},
	}
}

func (g *WaafiGateway) Charge(ctx context.Context, req ChargeRequest) ChargeResult {
	log := g.log.WithFields(logrus.Fields{
		"reference_id": req.ReferenceID,
		"amount":       req.Amount.StringFixed(2),
	})

	body, err := json.Marshal(g.buildRequest(req))
	if err != nil {
		return Failure(CodeProcessingError, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return Failure(CodeNetworkError, err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	log.Info("calling WaafiPay")
	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.WithError(err).Warn("WaafiPay request failed")
		return Failure(CodeNetworkError, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.WithError(err).Warn("WaafiPay response read failed")
		return Failure(CodeNetworkError, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("http_status", resp.StatusCode).Warn("WaafiPay returned non-2xx")
		return Failure(CodeNetworkError, fmt.Sprintf("Request failed with status code %d", resp.StatusCode))
	}

	var parsed waafiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.WithError(err).Warn("WaafiPay response is not valid JSON")
		return Failure(CodeInvalidResponse, defaultFailureMsg)
	}

	if code := string(parsed.ResponseCode); code != SuccessCode {
		msg := string(parsed.ResponseMsg)
		if msg == "" {
			msg = defaultFailureMsg
		}
		if code == "" {
			code = CodeInvalidResponse
		}
		log.WithField("response_code", code).Info("WaafiPay declined")
		return Failure(code, msg)
	}

	log.WithField("transaction_id", string(parsed.Params.TransactionID)).Info("WaafiPay charge succeeded")
	return ChargeResult{
		Success: true,
		Data: &ChargeData{
			ReferenceID:         string(parsed.Params.ReferenceID),
			TransactionID:       string(parsed.Params.TransactionID),
			IssuerTransactionID: string(parsed.Params.IssuerTransactionID),
			State:               string(parsed.Params.State),
			ResponseCode:        string(parsed.ResponseCode),
			ResponseMsg:         string(parsed.ResponseMsg),
			MerchantCharges:     string(parsed.Params.MerchantCharges),
			TxAmount:            string(parsed.Params.TxAmount),
		},
	}
}
