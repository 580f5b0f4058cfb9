package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/dto"
	"github.com/hfujimori/invoice_kanri_app/internal/middleware"
)

// auditHandler serves the audit log read surface.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: as}
}

// registerAuditRoutes registers audit routes.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)
	rg.GET("/audit", h.list)
}

// list godoc
// @Summary List audit entries
// @Description Most recent first. Limit defaults to 100 and is capped at 500.
// @Tags audit
// @Produce json
// @Param entity_type query string false "Entity type filter (invoice, vendor, department, user)"
// @Param entity_id query string false "Entity id filter"
// @Param limit query int false "Max entries" default(100)
// @Param offset query int false "Offset"
// @Success 200 {array} dto.AuditEntryResponse
// @Security BearerAuth
// @Router /audit [get]
func (h *auditHandler) list(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := portsrepo.AuditListFilter{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Limit:      limit,
		Offset:     offset,
	}

	entries, err := h.auditService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditEntryResponses(entries))
}
