// Package transfer implements the freee accounting API adapter used to
// register payable deals for approved invoices.
package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
)

const (
	serviceName = "freee"
	apiBase     = "https://api.freee.co.jp/api/1"
	authURL     = "https://accounts.secure.freee.co.jp/public_api/authorize"
	tokenURL    = "https://accounts.secure.freee.co.jp/public_api/token"

	// freee tax code for purchases taxed at the standard rate.
	dealTaxCode = 136
)

// FreeeClient talks to the freee accounting API. The OAuth token and the
// resolved company id live in memory for the process lifetime; a restart
// requires re-authorization.
type FreeeClient struct {
	oauthConfig *oauth2.Config
	httpClient  *resty.Client

	mu        sync.RWMutex
	token     *oauth2.Token
	companyID int64
}

// NewFreeeClient creates a freee client.
func NewFreeeClient(clientID, clientSecret, redirectURL string, timeout time.Duration) *FreeeClient {
	return &FreeeClient{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		httpClient: resty.New().
			SetBaseURL(apiBase).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

var _ portssvc.TransferProvider = (*FreeeClient)(nil)

// AuthorizationURL returns the consent URL to send the operator to.
func (c *FreeeClient) AuthorizationURL(state string) string {
	return c.oauthConfig.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "consent"))
}

type meResponse struct {
	User struct {
		Companies []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"companies"`
	} `json:"user"`
}

// CompleteAuthorization exchanges the code, resolves the first company on the
// account and stores both for subsequent deal creation.
func (c *FreeeClient) CompleteAuthorization(ctx context.Context, code string) (string, error) {
	token, err := c.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return "", apperrors.NewExternalError(serviceName, false, fmt.Errorf("token exchange failed: %w", err))
	}

	var me meResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&me).
		Get("/users/me")
	if err != nil {
		return "", apperrors.NewExternalError(serviceName, true, err)
	}
	if resp.IsError() {
		return "", apperrors.NewExternalError(serviceName, false,
			fmt.Errorf("users/me returned %d: %s", resp.StatusCode(), resp.String()))
	}
	if len(me.User.Companies) == 0 {
		return "", apperrors.NewExternalError(serviceName, false,
			fmt.Errorf("freee account has no companies"))
	}

	c.mu.Lock()
	c.token = token
	c.companyID = me.User.Companies[0].ID
	c.mu.Unlock()

	return fmt.Sprintf("%d", me.User.Companies[0].ID), nil
}

// ExecuteTransfer registers the invoice as a payable deal. The raw freee
// response is returned as the receipt stored on the invoice.
func (c *FreeeClient) ExecuteTransfer(ctx context.Context, order portssvc.TransferOrder) (domain.Document, error) {
	c.mu.RLock()
	token := c.token
	companyID := c.companyID
	c.mu.RUnlock()

	if token == nil || !token.Valid() {
		return nil, apperrors.NewExternalError(serviceName, false,
			fmt.Errorf("freee is not authorized, complete the OAuth flow first"))
	}

	body := map[string]any{
		"company_id":   companyID,
		"issue_date":   order.InvoiceDate,
		"due_date":     order.DueDate,
		"type":         "expense",
		"partner_name": order.PartnerName,
		"details": []map[string]any{
			{
				"tax_code":    dealTaxCode,
				"amount":      order.AmountJPY,
				"description": order.Description,
			},
		},
	}

	var receipt domain.Document
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetBody(body).
		SetResult(&receipt).
		Post("/deals")
	if err != nil {
		return nil, apperrors.NewExternalError(serviceName, true, err)
	}
	if resp.IsError() {
		retryable := resp.StatusCode() >= 500
		return nil, apperrors.NewExternalError(serviceName, retryable,
			fmt.Errorf("deals returned %d: %s", resp.StatusCode(), resp.String()))
	}
	return receipt, nil
}
