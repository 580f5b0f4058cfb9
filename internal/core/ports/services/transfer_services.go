package services

import (
	"context"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

// TransferSvcFacade executes transfers through the external provider.
type TransferSvcFacade interface {
	// ExecuteTransfer moves an approved invoice to transferred via the
	// provider. A retried call after success fails with a state conflict;
	// a provider failure leaves the invoice approved for a safe retry.
	ExecuteTransfer(ctx context.Context, invoiceID string, actor domain.Actor) (domain.Document, error)

	// AuthorizationURL returns the provider OAuth consent URL.
	AuthorizationURL(ctx context.Context) (string, error)

	// CompleteAuthorization finishes the provider OAuth flow.
	CompleteAuthorization(ctx context.Context, code string) (string, error)
}
