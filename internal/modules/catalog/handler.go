package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"tourism/internal/access"
	"tourism/internal/middleware"
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

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/places", h.ListPlaces)
	rg.GET("/places/category/:category", h.ListByCategory)
	rg.GET("/places/:id", h.GetPlace)
}

// RegisterAdminRoutes expects rg to run JWTAuth already.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/places", middleware.Authorize(access.KindPlace, access.ActionCreate), h.CreatePlace)
	rg.PUT("/places/:id", middleware.Authorize(access.KindPlace, access.ActionUpdate), h.UpdatePlace)
	rg.DELETE("/places/:id", middleware.Authorize(access.KindPlace, access.ActionDelete), h.DeletePlace)
}

func (h *Handler) ListPlaces(c *gin.Context) {
	places, err := h.service.ListPlaces(c.Request.Context(), c.Query("q"), c.Query("category"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, PlaceListResponse{Places: places, Count: len(places)})
}

func (h *Handler) ListByCategory(c *gin.Context) {
	places, err := h.service.ListPlaces(c.Request.Context(), "", c.Param("category"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, PlaceListResponse{Places: places, Count: len(places)})
}

func (h *Handler) GetPlace(c *gin.Context) {
	id, ok := placeID(c)
	if !ok {
		return
	}
	p, err := h.service.GetPlace(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) CreatePlace(c *gin.Context) {
	var req CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	p, err := h.service.CreatePlace(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) UpdatePlace(c *gin.Context) {
	id, ok := placeID(c)
	if !ok {
		return
	}
	var req UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	p, err := h.service.UpdatePlace(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) DeletePlace(c *gin.Context) {
	id, ok := placeID(c)
	if !ok {
		return
	}
	if err := h.service.DeletePlace(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Place removed", gin.H{"id": id})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid place", verr.Fields)
	case errors.Is(err, ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, "INVALID_CATEGORY", "Unknown place category")
	case errors.Is(err, ErrPlaceNotFound):
		response.Error(c, http.StatusNotFound, "PLACE_NOT_FOUND", "Place not found")
	default:
		_ = c.Error(err)
		h.log.WithError(err).Error("catalog request failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func placeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid place ID")
		return 0, false
	}
	return id, true
}
