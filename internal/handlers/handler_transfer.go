package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/middleware"
)

// transferHandler handles transfer execution and the provider OAuth flow.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{transferService: ts}
}

// registerTransferRoutes registers transfer routes.
func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := newTransferHandler(transferService)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("/:id/execute", h.execute)
		transfers.GET("/freee/auth-url", h.authURL)
		transfers.GET("/freee/callback", h.callback)
	}
}

// execute godoc
// @Summary Execute the transfer for an approved invoice
// @Description Registers the payable with the provider and moves the invoice to transferred. Retry after success yields 409.
// @Tags transfers
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} map[string]interface{} "Provider receipt"
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/{id}/execute [post]
func (h *transferHandler) execute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	receipt, err := h.transferService.ExecuteTransfer(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// authURL godoc
// @Summary Get the provider OAuth consent URL
// @Tags transfers
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /transfers/freee/auth-url [get]
func (h *transferHandler) authURL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	url, err := h.transferService.AuthorizationURL(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": url})
}

// callback godoc
// @Summary Complete the provider OAuth flow
// @Tags transfers
// @Produce json
// @Param code query string true "Authorization code"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/freee/callback [get]
func (h *transferHandler) callback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, err := h.transferService.CompleteAuthorization(c.Request.Context(), c.Query("code"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company_id": companyID})
}
