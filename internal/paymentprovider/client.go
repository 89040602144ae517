// Package paymentprovider — клиент Stripe для управления подписками.
package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/executive-coach/internal/config"
	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
)

// Provider имя провайдера для логов, метрик и ошибок.
const Provider = "Stripe"

// Client обращается к Stripe REST API.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Stripe
func NewClient(cfg config.Stripe, httpClient *http.Client) *Client {
	return &Client{
		secretKey:  cfg.SecretKey,
		apiURL:     cfg.BaseURL,
		httpClient: httpClient,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	u := c.apiURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	if c.secretKey == "" {
		return apperr.Config("STRIPE_SECRET_KEY")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return apperr.Upstream(Provider, resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}

// FindCustomerByEmail возвращает клиента Stripe по email или nil, если клиента нет.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	const op = "paymentprovider.FindCustomerByEmail"
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/customers", url.Values{
		"email": {email},
		"limit": {"1"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var list CustomerList
	if err := c.do(req, &list); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(list.Data) == 0 {
		return nil, nil
	}
	return &list.Data[0], nil
}

// GetSubscription возвращает подписку с развёрнутым клиентом.
func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	const op = "paymentprovider.GetSubscription"
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/subscriptions/"+url.PathEscape(id), url.Values{
		"expand[]": {"customer"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var sub Subscription
	if err := c.do(req, &sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// CancelSubscription немедленно отменяет подписку.
func (c *Client) CancelSubscription(ctx context.Context, id string) (*CanceledSubscription, error) {
	const op = "paymentprovider.CancelSubscription"
	req, err := c.newRequest(ctx, http.MethodDelete, "/v1/subscriptions/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var sub CanceledSubscription
	if err := c.do(req, &sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}
