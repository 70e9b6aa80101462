package dashboard

import (
	"fmt"
	"net/http"

	"tourism/internal/access"
	"tourism/internal/middleware"
	"tourism/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
	hub     *Hub
	log     logrus.FieldLogger
}

func NewHandler(service *Service, hub *Hub, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, hub: hub, log: log}
}

// RegisterRoutes mounts the header authenticated endpoints.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/dashboard", middleware.Authorize(access.KindAnalytics, access.ActionRead))
	{
		g.GET("/stats", h.GetStats)
		g.GET("/export", h.Export)
	}
}

// RegisterLiveRoute mounts the websocket feed. queryAuth authenticates from
// the access_token query parameter.
func (h *Handler) RegisterLiveRoute(v1 *gin.RouterGroup, queryAuth gin.HandlerFunc) {
	v1.GET("/dashboard/live", queryAuth, middleware.Authorize(access.KindAnalytics, access.ActionRead), h.Live)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) Export(c *gin.Context) {
	data, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	name := fmt.Sprintf("bookings-%s.xlsx", h.service.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *Handler) Live(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	if err := h.hub.Serve(c.Writer, c.Request, p.AccountID); err != nil {
		// the upgrader already wrote the HTTP error
		h.log.WithError(err).Warn("dashboard live upgrade failed")
	}
}

func (h *Handler) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	h.log.WithError(err).Error("dashboard request failed")
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build dashboard")
}
