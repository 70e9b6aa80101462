package payment

import (
	"net/http"
	"strconv"

	"tourism/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	log     logrus.FieldLogger
}

func NewHandler(service *Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes expects rg to be guarded for admin payment reads.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/booking/:bookingId", h.ListByBooking)
}

func (h *Handler) List(c *gin.Context) {
	payments, err := h.service.ListPayments(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("list payments failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load payments")
		return
	}
	response.Success(c, http.StatusOK, PaymentListResponse{Payments: payments, Count: len(payments)})
}

func (h *Handler) ListByBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	payments, err := h.service.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		h.log.WithError(err).WithField("booking_id", bookingID).Error("list booking payments failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load payments")
		return
	}
	response.Success(c, http.StatusOK, PaymentListResponse{Payments: payments, Count: len(payments)})
}
