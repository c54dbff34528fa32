package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-relay/internal/core"
	"github.com/vovakirdan/wirechat-relay/internal/store"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AdminHandlers serves read-only views of the relay state.
type AdminHandlers struct {
	reg   *core.Registry
	store store.Store
	log   *zerolog.Logger
}

// NewAdminHandlers creates a new admin handlers instance.
func NewAdminHandlers(reg *core.Registry, st store.Store, logger *zerolog.Logger) *AdminHandlers {
	if st == nil {
		st = store.Nop{}
	}
	return &AdminHandlers{reg: reg, store: st, log: logger}
}

// ListRooms returns the room list snapshot.
// GET /api/rooms
func (h *AdminHandlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, toRoomResponses(h.reg.ListRooms()))
}

// Stats returns registry occupancy.
// GET /api/stats
func (h *AdminHandlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, toStatsResponse(h.reg.Stats()))
}

// ListEvents returns recent audit records, newest first.
// GET /api/audit?limit=N
func (h *AdminHandlers) ListEvents(c *gin.Context) {
	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = min(n, maxAuditLimit)
	}

	events, err := h.store.ListEvents(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list audit events")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toEventResponses(events))
}
