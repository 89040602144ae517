// Package identityprovider — клиент Supabase Auth: admin API для управления
// пользователями и проверка access-токенов пользователя.
package identityprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/executive-coach/internal/config"
	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
)

// Provider имя провайдера для логов, метрик и ошибок.
const Provider = "Supabase"

const (
	listPageSize = 1000
	maxListPages = 100
)

// Client обращается к Supabase Auth.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient создаёт клиент Supabase Auth.
func NewClient(cfg config.Supabase, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceRoleKey,
		httpClient: httpClient,
	}
}

func (c *Client) configured() error {
	if c.baseURL == "" {
		return apperr.Config("SUPABASE_URL")
	}
	if c.serviceKey == "" {
		return apperr.Config("SUPABASE_SERVICE_ROLE_KEY")
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path, bearer string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperr.Upstream(Provider, resp.StatusCode, string(body))
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// GetUser возвращает пользователя по его access-токену.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	const op = "identityprovider.GetUser"
	if err := c.configured(); err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var user User
	if err := c.do(req, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// FindUserByEmail ищет пользователя по email, листая admin API постранично,
// пока страница не вернётся неполной. Возвращает nil, если пользователь не найден.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	const op = "identityprovider.FindUserByEmail"
	if err := c.configured(); err != nil {
		return nil, err
	}
	for page := 1; page <= maxListPages; page++ {
		q := url.Values{"page": {strconv.Itoa(page)}, "per_page": {strconv.Itoa(listPageSize)}}
		req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/admin/users?"+q.Encode(), c.serviceKey, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		var list UserList
		if err := c.do(req, &list); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for i := range list.Users {
			if strings.EqualFold(list.Users[i].Email, email) {
				return &list.Users[i], nil
			}
		}
		if len(list.Users) < listPageSize {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%s: user list exceeds %d pages", op, maxListPages)
}

// IsEmailExists сообщает, что провайдер отклонил создание пользователя,
// потому что email уже зарегистрирован.
func IsEmailExists(err error) bool {
	var up *apperr.UpstreamError
	if !errors.As(err, &up) || up.Status != http.StatusUnprocessableEntity {
		return false
	}
	return strings.Contains(up.Body, "email_exists") || strings.Contains(up.Body, "already been registered")
}

// CreateUser создаёт подтверждённого пользователя.
func (c *Client) CreateUser(ctx context.Context, reqParams CreateUserRequest) (*User, error) {
	const op = "identityprovider.CreateUser"
	if err := c.configured(); err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/admin/users", c.serviceKey, reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var user User
	if err := c.do(req, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// DeleteUser удаляет пользователя из Supabase Auth.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	const op = "identityprovider.DeleteUser"
	if err := c.configured(); err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(userID), c.serviceKey, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
