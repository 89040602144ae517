package coach

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/executive-coach/internal/cache"
	"github.com/magabrotheeeer/executive-coach/internal/config"
	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/metrics"
	"github.com/magabrotheeeer/executive-coach/internal/models"
	"github.com/magabrotheeeer/executive-coach/internal/paymentprovider"
	"github.com/magabrotheeeer/executive-coach/internal/services/account"
	"github.com/magabrotheeeer/executive-coach/internal/services/notice"
	"github.com/magabrotheeeer/executive-coach/internal/services/session"
	"github.com/magabrotheeeer/executive-coach/internal/services/speech"
	"github.com/magabrotheeeer/executive-coach/internal/services/strategy"
)

type stubStrategy struct{}

func (stubStrategy) Ask(_ context.Context, req strategy.Request) (*strategy.Reply, error) {
	return &strategy.Reply{Response: "Focus on " + req.Message, Model: "gpt-4o-mini"}, nil
}

type stubSpeech struct{}

func (stubSpeech) Speak(context.Context, string, string, string) (*speech.Result, error) {
	return &speech.Result{AudioContent: "AAAA", Voice: speech.DefaultVoice, Model: "eleven_multilingual_v2"}, nil
}

type stubBilling struct{}

func (stubBilling) Cancel(context.Context, models.Identity, string) (*paymentprovider.CanceledSubscription, error) {
	return nil, apperr.Forbidden("Subscription does not belong to this user")
}

type stubAccounts struct{}

func (stubAccounts) ProvisionDemo(context.Context) (*account.DemoAccount, error) {
	return &account.DemoAccount{Credentials: models.Credentials{Email: "demo@example.com", Password: "pw"}}, nil
}

func (stubAccounts) Delete(context.Context, models.Identity) error { return nil }

func (stubAccounts) Profile(context.Context, string) (models.Profile, error) {
	return models.Profile{}, nil
}

type stubAuth struct{}

func (stubAuth) Authenticate(_ context.Context, header string) (models.Identity, error) {
	if header == "" {
		return models.Identity{}, apperr.Auth("No authorization header")
	}
	return models.Identity{Kind: models.KindAuthenticated, ID: "user-1", Email: "exec@example.com"}, nil
}

func newRouter(t *testing.T, limits config.RateLimit) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewStore(c, time.Hour, logger)
	registry := prometheus.NewRegistry()

	r := chi.NewRouter()
	RegisterRoutes(r, logger, limits, Services{
		Strategy:  stubStrategy{},
		Speech:    stubSpeech{},
		Billing:   stubBilling{},
		Demo:      stubAccounts{},
		Accounts:  stubAccounts{},
		Profiles:  stubAccounts{},
		Auth:      stubAuth{},
		Sessions:  sessions,
		Scheduler: notice.NewScheduler(sessions, notice.NopPublisher{}, logger),
		Metrics:   metrics.New(registry),
		Gatherer:  registry,
	})
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

var generous = config.RateLimit{RPS: 100, Burst: 100}

func TestRoutes_Preflight(t *testing.T) {
	h := newRouter(t, generous)

	for _, path := range []string{"/ai-strategy-chat", "/text-to-speech", "/cancel-subscription", "/create-demo-account", "/delete-account"} {
		t.Run(path, func(t *testing.T) {
			rr := do(h, http.MethodOptions, path, "")
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "authorization, x-client-info, apikey, content-type", rr.Header().Get("Access-Control-Allow-Headers"))
			assert.Empty(t, rr.Body.String())
		})
	}
}

func TestRoutes_StrategyChat(t *testing.T) {
	h := newRouter(t, generous)

	rr := do(h, http.MethodPost, "/ai-strategy-chat", `{"message":"hiring"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Focus on hiring", resp["response"])
	assert.Equal(t, "gpt-4o-mini", resp["model"])
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes_RateLimit(t *testing.T) {
	h := newRouter(t, config.RateLimit{RPS: 0.001, Burst: 1})

	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/text-to-speech", `{"text":"hello"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodPost, "/text-to-speech", `{"text":"hello"}`).Code)
}

func TestRoutes_AuthFailures(t *testing.T) {
	h := newRouter(t, generous)

	rr := do(h, http.MethodPost, "/cancel-subscription", `{"subscriptionId":"sub_1"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"No authorization header"}`, rr.Body.String())

	rr = do(h, http.MethodPost, "/delete-account", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"No authorization header"}`, rr.Body.String())
}

func TestRoutes_CancelForbidden(t *testing.T) {
	h := newRouter(t, generous)

	req := httptest.NewRequest(http.MethodPost, "/cancel-subscription", strings.NewReader(`{"subscriptionId":"sub_1"}`))
	req.Header.Set("Authorization", "Bearer token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Subscription does not belong to this user"}`, rr.Body.String())

	rr = do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `provider="Stripe"`)
}

func TestRoutes_SessionAndMetrics(t *testing.T) {
	h := newRouter(t, generous)

	rr := do(h, http.MethodPost, "/session", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var creds struct {
		GuestID  string `json:"guest_id"`
		GuestKey string `json:"guest_key"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &creds))
	require.NotEmpty(t, creds.GuestID)
	require.NotEmpty(t, creds.GuestKey)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set("X-Guest-Id", creds.GuestID)
	req.Header.Set("X-Guest-Key", creds.GuestKey)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(h, http.MethodOptions, "/session", "")
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "x-guest-id, x-guest-key")

	do(h, http.MethodPost, "/ai-strategy-chat", `{"message":"pricing"}`)
	rr = do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `executive_coach_upstream_calls_total{outcome="ok",provider="OpenAI"} 1`)
}
