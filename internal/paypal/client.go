package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/config"
)

// Client talks to the PayPal REST API. Only the checkout-creation contract
// is consumed; capture confirmation is asserted by the frontend caller and
// recorded by the payment reconciler.
type Client struct {
	baseURL  string
	clientID string
	secret   string
	currency string
	http     *http.Client
}

// NewClient creates a PayPal client from configuration
func NewClient(cfg *config.PayPalConfig) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		clientID: cfg.ClientID,
		secret:   cfg.Secret,
		currency: cfg.Currency,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token endpoint returned %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

type amountValue struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type amountBreakdown struct {
	ItemTotal amountValue `json:"item_total"`
	TaxTotal  amountValue `json:"tax_total"`
}

type purchaseAmount struct {
	CurrencyCode string          `json:"currency_code"`
	Value        string          `json:"value"`
	Breakdown    amountBreakdown `json:"breakdown"`
}

type purchaseUnit struct {
	Description string         `json:"description"`
	Amount      purchaseAmount `json:"amount"`
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type createOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateCheckout creates a processor-side order for the given amount
// breakdown and returns the external order id. The grand total is always
// subtotal + tax; the currency is fixed by configuration.
func (c *Client) CreateCheckout(ctx context.Context, itemDescription string, subtotal, tax float64) (string, error) {
	token, err := c.fetchToken(ctx)
	if err != nil {
		return "", apperr.Upstream(err, "payment processor authentication failed")
	}

	body := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			Description: itemDescription,
			Amount: purchaseAmount{
				CurrencyCode: c.currency,
				Value:        money(subtotal + tax),
				Breakdown: amountBreakdown{
					ItemTotal: amountValue{CurrencyCode: c.currency, Value: money(subtotal)},
					TaxTotal:  amountValue{CurrencyCode: c.currency, Value: money(tax)},
				},
			},
		}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", apperr.Internal(err, "failed to encode checkout request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/checkout/orders", bytes.NewReader(payload))
	if err != nil {
		return "", apperr.Internal(err, "failed to build checkout request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperr.Upstream(err, "payment processor unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", apperr.Upstream(
			fmt.Errorf("paypal checkout endpoint returned %d", resp.StatusCode),
			"payment processor rejected the checkout")
	}

	var created createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", apperr.Upstream(err, "payment processor returned malformed response")
	}
	return created.ID, nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
