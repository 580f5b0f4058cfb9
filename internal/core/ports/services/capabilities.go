package services

import (
	"context"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

// Extractor is the capability contract for the external document-extraction
// service. The returned payload has no schema owned by this core; tests
// substitute deterministic fakes.
type Extractor interface {
	// Extract submits the raw file bytes and awaits the structured result.
	// The call carries an explicit timeout via ctx; failures are surfaced
	// as apperrors.ExternalError with the retryable/fatal distinction.
	Extract(ctx context.Context, content []byte, filename string) (domain.Document, error)
}

// RegistryClient is the capability contract for the external qualified-invoice
// registration lookup service.
type RegistryClient interface {
	// Verify checks a registration number against the registry and returns
	// the matched business identity when found.
	Verify(ctx context.Context, registrationNumber string) (*domain.RegistryVerification, error)
}

// TransferOrder is the payment instruction handed to the transfer provider.
type TransferOrder struct {
	InvoiceID   string
	InvoiceDate string
	DueDate     string
	AmountJPY   int64
	PartnerName string
	Description string
}

// TransferProvider is the capability contract for the external banking/
// accounting provider that executes transfers. Idempotency under retry is
// enforced by the lifecycle precondition (invoice must be approved), not by
// provider behavior.
type TransferProvider interface {
	// AuthorizationURL returns the provider's OAuth consent URL.
	AuthorizationURL(state string) string

	// CompleteAuthorization exchanges the OAuth code and returns the
	// provider-side company id.
	CompleteAuthorization(ctx context.Context, code string) (string, error)

	// ExecuteTransfer registers the payable with the provider and returns
	// the provider's opaque receipt.
	ExecuteTransfer(ctx context.Context, order TransferOrder) (domain.Document, error)
}

// FileStore persists uploaded originals, id-addressed, and reads them back
// for integrity verification.
type FileStore interface {
	// Save writes the raw bytes and returns the relative storage path.
	Save(content []byte, originalFilename string) (string, error)

	// Read returns the currently stored bytes for a relative path.
	Read(relPath string) ([]byte, error)
}
