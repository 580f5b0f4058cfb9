package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/dto"
	"github.com/hfujimori/invoice_kanri_app/internal/middleware"
)

// maxUploadBytes caps one uploaded file at 20MB.
const maxUploadBytes = 20 << 20

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("/upload", h.upload)
		invoices.GET("", h.list)
		invoices.GET("/:id", h.get)
		invoices.PUT("/:id", h.update)
		invoices.DELETE("/:id", h.remove)
		invoices.POST("/:id/approve", h.approve)
		invoices.POST("/:id/reject", h.reject)
		invoices.POST("/:id/archive", h.archive)
		invoices.GET("/:id/verify-hash", h.verifyHash)
	}
}

func requireActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return actor, ok
}

// upload godoc
// @Summary Upload invoice files
// @Description Accepts one or more files, stores them, and runs extraction plus the automatic compliance check.
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Invoice files"
// @Success 201 {array} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/upload [post]
func (h *invoiceHandler) upload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid multipart form: " + err.Error()})
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No files provided under 'files'"})
		return
	}

	files := make([]dto.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size > maxUploadBytes {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "File too large: " + fh.Filename})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Cannot read file: " + fh.Filename})
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Cannot read file: " + fh.Filename})
			return
		}
		files = append(files, dto.UploadedFile{Filename: fh.Filename, Content: content})
	}

	invoices, err := h.invoiceService.UploadInvoices(c.Request.Context(), files, actor)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvoiceResponses(invoices))
}

// list godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size" default(20)
// @Param status query string false "Status filter"
// @Param department_id query string false "Department filter"
// @Param vendor_name query string false "Vendor name substring"
// @Param date_from query string false "Invoice date from (YYYY-MM-DD)"
// @Param date_to query string false "Invoice date to (YYYY-MM-DD)"
// @Param amount_min query int false "Minimum total amount"
// @Param amount_max query int false "Maximum total amount"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) list(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	filter, err := toInvoiceListFilter(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter, actor)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListInvoicesResponse{
		Items:   dto.ToInvoiceResponses(invoices),
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
}

func toInvoiceListFilter(req dto.ListInvoicesRequest) (portsrepo.InvoiceListFilter, error) {
	filter := portsrepo.InvoiceListFilter{
		Page:       req.Page,
		PerPage:    req.PerPage,
		VendorName: req.VendorName,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
	}
	if req.Status != "" {
		status := domain.InvoiceStatus(req.Status)
		if !status.IsValid() {
			return filter, apperrors.NewValidationError("unknown status: " + req.Status)
		}
		filter.Status = status
	}
	if req.DepartmentID != "" {
		id := req.DepartmentID
		filter.DepartmentID = &id
	}
	if req.AmountMin != nil {
		d := decimal.NewFromInt(*req.AmountMin)
		filter.AmountMin = &d
	}
	if req.AmountMax != nil {
		d := decimal.NewFromInt(*req.AmountMax)
		filter.AmountMax = &d
	}
	if req.DateTo != nil {
		// Make the upper bound inclusive of the whole day.
		end := req.DateTo.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}
	return filter, nil
}

// get godoc
// @Summary Get one invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) get(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// update godoc
// @Summary Edit invoice fields during review
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "Fields to change"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [put]
func (h *invoiceHandler) update(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	inv, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// approve godoc
// @Summary Approve an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/approve [post]
func (h *invoiceHandler) approve(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.ApproveInvoice(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	logger.Info("Invoice approved", slog.String("invoice_id", inv.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// reject godoc
// @Summary Reject an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/reject [post]
func (h *invoiceHandler) reject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.RejectInvoice(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	logger.Info("Invoice rejected", slog.String("invoice_id", inv.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// archive godoc
// @Summary Archive a transferred invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/archive [post]
func (h *invoiceHandler) archive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.ArchiveInvoice(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// remove godoc
// @Summary Soft-delete an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invoice is inside its retention period"
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *invoiceHandler) remove(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// verifyHash godoc
// @Summary Verify the stored file's integrity hash
// @Description Recomputes SHA-256 over the stored bytes and compares it to the digest recorded at ingestion.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.VerifyHashResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/verify-hash [get]
func (h *invoiceHandler) verifyHash(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireActor(c); !ok {
		return
	}
	valid, expected, err := h.invoiceService.VerifyInvoiceFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.VerifyHashResponse{Valid: valid, Expected: expected})
}
