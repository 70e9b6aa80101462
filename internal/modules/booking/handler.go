package booking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tourism/internal/access"
	"tourism/internal/domain"
	"tourism/internal/middleware"
	"tourism/internal/pkg/idempotency"
	"tourism/internal/pkg/response"
	"tourism/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayHeader      = "Idempotent-Replay"
)

type Handler struct {
	service *Service
	idem    idempotency.Store
	log     logrus.FieldLogger
}

// NewHandler builds the booking handler. idem may be nil to disable
// Idempotency-Key handling.
func NewHandler(service *Service, idem idempotency.Store, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{service: service, idem: idem, log: log}
}

// RegisterPublicRoutes mounts the gateway webhook. limit guards it against floods.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.POST("/bookings/payment-callback", limit, h.PaymentCallback)
}

// RegisterProtectedRoutes expects rg to run JWTAuth already.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	b := rg.Group("/bookings")
	b.POST("", middleware.Authorize(access.KindBooking, access.ActionCreate), h.CreateBooking)
	b.GET("", middleware.Authorize(access.KindBooking, access.ActionRead), h.ListBookings)
	b.GET("/my-bookings", h.MyBookings)
	b.GET("/user/:userId", h.UserBookings)
	b.GET("/:id", h.GetBooking)
	b.GET("/:id/ticket", h.Ticket)
	b.PUT("/:id/status", middleware.Authorize(access.KindBooking, access.ActionUpdate), h.UpdateStatus)
	b.DELETE("/:id", h.RemoveBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	date, err := parseBookingDate(req.BookingDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "bookingDate must be YYYY-MM-DD or RFC3339")
		return
	}

	p := middleware.CurrentPrincipal(c)
	ctx := c.Request.Context()

	var idemKey string
	if key := strings.TrimSpace(c.GetHeader(idempotencyHeader)); key != "" && h.idem != nil {
		scoped := fmt.Sprintf("booking:%d:%s", p.AccountID, key)
		existing, reserved, err := h.idem.Reserve(ctx, scoped)
		switch {
		case err != nil:
			h.log.WithError(err).Warn("idempotency store unavailable, continuing without it")
		case !reserved && existing.Pending:
			response.Error(c, http.StatusConflict, "IDEMPOTENCY_IN_PROGRESS", "A request with this Idempotency-Key is still being processed")
			return
		case !reserved:
			h.replay(c, existing.Value, p)
			return
		default:
			idemKey = scoped
		}
	}

	res, err := h.service.CreateBooking(ctx, CreateBookingInput{
		AccountID:      p.AccountID,
		PlaceID:        req.PlaceID,
		BookingDate:    date,
		NumberOfPeople: req.NumberOfPeople,
		Payment:        req.PaymentDetails(),
	})

	if idemKey != "" {
		if err != nil {
			_ = h.idem.Release(ctx, idemKey)
		} else if cerr := h.idem.Complete(ctx, idemKey, strconv.FormatInt(res.Booking.ID, 10)); cerr != nil {
			h.log.WithError(cerr).Warn("idempotency key not recorded")
		}
	}

	if err != nil {
		h.writeError(c, err, "Failed to create booking")
		return
	}

	switch {
	case res.Payment == nil:
		response.Success(c, http.StatusCreated, res)
	case res.Payment.Success:
		response.SuccessWithMessage(c, http.StatusCreated, "Booking created and payment successful", res)
	default:
		response.ErrorWithData(c, http.StatusBadRequest, "PAYMENT_FAILED", res.Payment.Message(), res)
	}
}

func (h *Handler) replay(c *gin.Context, storedID string, p access.Principal) {
	id, err := strconv.ParseInt(storedID, 10, 64)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Corrupt idempotency record")
		return
	}
	v, err := h.service.GetBooking(c.Request.Context(), id, p)
	if err != nil {
		h.writeError(c, err, "Failed to load booking")
		return
	}
	c.Header(replayHeader, "true")
	response.Success(c, http.StatusOK, gin.H{"booking": v})
}

func (h *Handler) ListBookings(c *gin.Context) {
	views, err := h.service.ListBookings(c.Request.Context(), repository.BookingFilter{
		Query:         c.Query("q"),
		Status:        domain.BookingStatus(c.Query("status")),
		PaymentStatus: domain.PaymentStatus(c.Query("payment_status")),
	})
	if err != nil {
		h.writeError(c, err, "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, BookingListResponse{Bookings: views, Count: len(views)})
}

func (h *Handler) MyBookings(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	h.listForUser(c, p.AccountID, p)
}

func (h *Handler) UserBookings(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	h.listForUser(c, userID, middleware.CurrentPrincipal(c))
}

func (h *Handler) listForUser(c *gin.Context, userID int64, p access.Principal) {
	views, err := h.service.ListUserBookings(c.Request.Context(), userID, p)
	if err != nil {
		h.writeError(c, err, "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, BookingListResponse{Bookings: views, Count: len(views)})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	v, err := h.service.GetBooking(c.Request.Context(), id, middleware.CurrentPrincipal(c))
	if err != nil {
		h.writeError(c, err, "Failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (h *Handler) Ticket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	png, err := h.service.Ticket(c.Request.Context(), id, middleware.CurrentPrincipal(c))
	if err != nil {
		h.writeError(c, err, "Failed to render ticket")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="booking-%d.png"`, id))
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdateBookingStatus(c.Request.Context(), id, req.Status, req.PaymentStatus)
	if err != nil {
		h.writeError(c, err, "Failed to update booking")
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) RemoveBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	action, err := h.service.RemoveBooking(c.Request.Context(), id, middleware.CurrentPrincipal(c))
	if err != nil {
		h.writeError(c, err, "Failed to remove booking")
		return
	}

	msg := "Booking deleted successfully"
	if action == RemoveCancelled {
		msg = "Booking cancelled successfully"
	}
	response.SuccessWithMessage(c, http.StatusOK, msg, gin.H{"id": id, "action": action})
}

func (h *Handler) PaymentCallback(c *gin.Context) {
	var req PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid callback body")
		return
	}

	b, paid, err := h.service.HandlePaymentCallback(c.Request.Context(), req.BookingID, req.TransactionID, req.Status)
	if err != nil {
		h.writeError(c, err, "Failed to process payment callback")
		return
	}
	if !paid {
		response.ErrorWithData(c, http.StatusBadRequest, "PAYMENT_FAILED", "Payment failed.", b)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Payment successful and booking confirmed.", b)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var capErr *CapacityError
	switch {
	case errors.As(err, &capErr):
		response.Error(c, http.StatusBadRequest, "CAPACITY_EXCEEDED", capErr.Error())
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "numberOfPeople must be at least 1")
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown status or paymentStatus value")
	case errors.Is(err, ErrPlaceNotFound):
		response.Error(c, http.StatusNotFound, "PLACE_NOT_FOUND", "Place not found")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not authorized to access this booking")
	default:
		_ = c.Error(err)
		h.log.WithError(err).Error(fallback)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}
