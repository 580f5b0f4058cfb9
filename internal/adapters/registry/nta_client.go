// Package registry implements the client for the National Tax Agency's
// public registry of qualified invoice issuers.
package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
)

const serviceName = "nta-registry"

// announcementRecord is one published issuer entry in the NTA response.
type announcementRecord struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	RegistrationDate string `json:"registrationDate"`
	UpdateDate       string `json:"updateDate"`
}

type lookupResponse struct {
	Count        any                  `json:"count"`
	Announcement []announcementRecord `json:"announcement"`
}

// NTAClient looks registration numbers up in the public registry.
type NTAClient struct {
	httpClient *resty.Client
}

// NewNTAClient creates a registry client.
func NewNTAClient(baseURL string, timeout time.Duration, retryMax int) *NTAClient {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retryMax).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("Accept", "application/json")
	return &NTAClient{httpClient: httpClient}
}

var _ portssvc.RegistryClient = (*NTAClient)(nil)

// Verify checks one registration number. A number absent from the registry is
// a definitive invalid answer, not an error; only transport and server
// failures surface as errors so callers can distinguish "invalid" from
// "registry unreachable".
func (c *NTAClient) Verify(ctx context.Context, registrationNumber string) (*domain.RegistryVerification, error) {
	clean := strings.ToUpper(strings.TrimSpace(registrationNumber))
	if !strings.HasPrefix(clean, "T") {
		clean = "T" + clean
	}

	var result lookupResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("id", clean).
		SetQueryParam("type", "21").
		SetResult(&result).
		Get("/num")
	if err != nil {
		return nil, apperrors.NewExternalError(serviceName, true, err)
	}
	if resp.IsError() {
		retryable := resp.StatusCode() >= 500
		return nil, apperrors.NewExternalError(serviceName, retryable,
			fmt.Errorf("registry returned %d for %s", resp.StatusCode(), clean))
	}

	verification := &domain.RegistryVerification{
		RegistrationNumber: clean,
		RawResponse:        domain.Document{"announcement_count": len(result.Announcement)},
	}
	if len(result.Announcement) == 0 {
		return verification, nil
	}

	rec := result.Announcement[0]
	verification.IsValid = true
	verification.CompanyName = rec.Name
	verification.Address = rec.Address
	verification.RegistrationDate = rec.RegistrationDate
	return verification, nil
}
