package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hfujimori/invoice_kanri_app/cmd/docs"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/middleware"
	"github.com/hfujimori/invoice_kanri_app/internal/platform/config"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// regnum validates a qualified-invoice registration number, T plus
		// 13 digits. Empty passes so optional fields use omitempty semantics.
		_ = v.RegisterValidation("regnum", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || domain.IsRegistrationNumberFormat(s)
		})
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	uploadDir string,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Uploaded originals, read-only.
	r.Static("/uploads", uploadDir)

	registerAuthRoutes(r, cfg, services)
	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the entity
// route registrations. Role gates: master data and user administration are
// admin territory; the audit log is admin/accountant.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerInvoiceRoutes(v1, services.Invoice)
	registerTransferRoutes(v1, services.Transfer)
	registerComplianceRoutes(v1, services.Compliance)
	registerDashboardRoutes(v1, services.Reporting)
	registerVendorRoutes(v1, services.Vendor)

	adminOrAccountant := v1.Group("", middleware.RequireRoles(domain.RoleAdmin, domain.RoleAccountant))
	registerAuditRoutes(adminOrAccountant, services.Audit)

	registerDepartmentRoutes(v1, services.Department)
	registerUserRoutes(v1, services.User)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
