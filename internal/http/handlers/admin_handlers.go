package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/shopauth/domain"
	"github.com/you/shopauth/internal/http/middleware"
	"github.com/you/shopauth/internal/http/response"
)

// AdminHandlers exposes session maintenance to administrators
type AdminHandlers struct {
	sessions domain.SessionService
	audit    domain.AuditLogger
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(sessions domain.SessionService, audit domain.AuditLogger) *AdminHandlers {
	if audit == nil {
		audit = domain.NopAuditLogger{}
	}
	return &AdminHandlers{sessions: sessions, audit: audit}
}

// SweepSessions deletes every expired session now
func (h *AdminHandlers) SweepSessions(c *gin.Context) {
	deleted, err := h.sessions.Sweep(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}

	event := domain.NewAuditEvent(domain.SessionsSweptEvent, 0).WithMetadata("deleted", deleted)
	if id, ok := middleware.IdentityFrom(c.Request.Context()); ok {
		event.WithMetadata("admin_id", id.UserID)
	}
	h.audit.LogEvent(c.Request.Context(), event)

	response.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}

// RevokeUserSessions signs a user out everywhere
func (h *AdminHandlers) RevokeUserSessions(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		response.Fail(c, response.ErrInvalidRequest)
		return
	}

	revoked, err := h.sessions.RevokeAll(c.Request.Context(), uint(userID))
	if err != nil {
		response.Fail(c, err)
		return
	}

	event := domain.NewAuditEvent(domain.SessionsRevokedEvent, uint(userID)).WithMetadata("revoked", revoked)
	if id, ok := middleware.IdentityFrom(c.Request.Context()); ok {
		event.WithMetadata("admin_id", id.UserID)
	}
	h.audit.LogEvent(c.Request.Context(), event)

	response.Success(c, http.StatusOK, gin.H{"revoked": revoked})
}
