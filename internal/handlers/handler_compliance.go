package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/middleware"
)

// complianceHandler handles compliance verification requests.
type complianceHandler struct {
	complianceService portssvc.ComplianceSvcFacade
}

func newComplianceHandler(cs portssvc.ComplianceSvcFacade) *complianceHandler {
	return &complianceHandler{complianceService: cs}
}

// registerComplianceRoutes registers compliance routes.
func registerComplianceRoutes(rg *gin.RouterGroup, complianceService portssvc.ComplianceSvcFacade) {
	h := newComplianceHandler(complianceService)

	compliance := rg.Group("/compliance")
	{
		compliance.POST("/check/:id", h.check)
		compliance.GET("/verify/:number", h.verify)
		compliance.GET("/dashboard", h.dashboard)
	}
}

// check godoc
// @Summary Run the compliance check for an invoice
// @Description Recomputes the content checks and the registry lookup, stores the snapshot and advances extracted invoices to compliance_checked.
// @Tags compliance
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.ComplianceCheck
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invoice is in a terminal state"
// @Security BearerAuth
// @Router /compliance/check/{id} [post]
func (h *complianceHandler) check(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	check, err := h.complianceService.CheckInvoice(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// verify godoc
// @Summary Verify a registration number ad hoc
// @Tags compliance
// @Produce json
// @Param number path string true "Registration number (T + 13 digits)"
// @Success 200 {object} domain.RegistryVerification
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /compliance/verify/{number} [get]
func (h *complianceHandler) verify(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	verification, err := h.complianceService.VerifyRegistrationNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, verification)
}

// dashboard godoc
// @Summary Compliance dashboard
// @Description Partitions all invoices into valid/invalid/unchecked registration buckets.
// @Tags compliance
// @Produce json
// @Success 200 {object} domain.ComplianceDashboard
// @Security BearerAuth
// @Router /compliance/dashboard [get]
func (h *complianceHandler) dashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	dashboard, err := h.complianceService.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
