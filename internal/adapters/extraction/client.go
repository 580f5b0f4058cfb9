// Package extraction implements the client for the external document
// extraction service that turns uploaded invoice files into structured data.
package extraction

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
)

const serviceName = "extractor"

// Client calls the extraction service over HTTP. Transient failures are
// retried with backoff inside the client; what escapes here is final.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates an extraction client.
func NewClient(baseURL string, timeout time.Duration, retryMax int) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retryMax).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("Accept", "application/json")
	return &Client{httpClient: httpClient}
}

var _ portssvc.Extractor = (*Client)(nil)

// Extract submits the file and returns the structured payload verbatim.
// 4xx answers are fatal (the document itself is the problem); 5xx answers
// and transport errors are retryable.
func (c *Client) Extract(ctx context.Context, content []byte, filename string) (domain.Document, error) {
	var result domain.Document
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(content)).
		SetResult(&result).
		Post("/extract")
	if err != nil {
		return nil, apperrors.NewExternalError(serviceName, true, err)
	}
	if resp.IsError() {
		retryable := resp.StatusCode() >= 500
		return nil, apperrors.NewExternalError(serviceName, retryable,
			fmt.Errorf("extraction service returned %d: %s", resp.StatusCode(), resp.String()))
	}
	if result == nil {
		return nil, apperrors.NewExternalError(serviceName, false,
			fmt.Errorf("extraction service returned an empty payload for %s", filename))
	}
	return result, nil
}
