package guestsession

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/executive-coach/internal/cache"
	"github.com/magabrotheeeer/executive-coach/internal/config"
	"github.com/magabrotheeeer/executive-coach/internal/http/middlewarectx"
	"github.com/magabrotheeeer/executive-coach/internal/http/response"
	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/models"
	"github.com/magabrotheeeer/executive-coach/internal/services/access"
	"github.com/magabrotheeeer/executive-coach/internal/services/notice"
	"github.com/magabrotheeeer/executive-coach/internal/services/session"
)

type fakeAuth struct{}

func (fakeAuth) Authenticate(_ context.Context, header string) (models.Identity, error) {
	if header != "Bearer good" {
		return models.Identity{}, apperr.Auth("Invalid or expired token")
	}
	return models.Identity{Kind: models.KindAuthenticated, ID: "user-1", Email: "exec@example.com"}, nil
}

type fakeProfiles struct{}

func (fakeProfiles) Profile(_ context.Context, userID string) (models.Profile, error) {
	tier, role := "premium", "CEO"
	return models.Profile{Tier: &tier, Role: &role}, nil
}

type countingObserver struct {
	gates   map[string]int
	notices map[string]int
}

func (o *countingObserver) ObserveGate(state string)  { o.gates[state]++ }
func (o *countingObserver) ObserveNotice(kind string) { o.notices[kind]++ }

type testEnv struct {
	router http.Handler
	clock  *time.Time
	obs    *countingObserver
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore(c, time.Hour, log)
	scheduler := notice.NewScheduler(store, notice.NopPublisher{}, log)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	env := &testEnv{clock: &now, obs: &countingObserver{gates: map[string]int{}, notices: map[string]int{}}}
	h := New(log, store, scheduler, fakeProfiles{}, env.obs, WithClock(func() time.Time { return *env.clock }))

	r := chi.NewRouter()
	r.Post("/session", h.Create)
	r.With(middlewarectx.OptionalGuestSessionMiddleware(store, log)).Post("/session/sign-out", h.SignOut)
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.GuestSessionMiddleware(store, log))
		r.Get("/session", h.Get)
		r.Patch("/session/profile", h.UpdateProfile)
		r.Post("/session/trial", h.StartTrial)
		r.Get("/session/notices", h.Notices)
		r.With(middlewarectx.AuthMiddleware(fakeAuth{}, log, func(w http.ResponseWriter, r *http.Request, err error) {
			response.WithStatus(w, r, http.StatusUnauthorized, apperr.Message(err))
		})).Post("/session/sign-in", h.SignIn)
	})
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, creds *Credentials, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if creds != nil {
		req.Header.Set(middlewarectx.GuestIDHeader, creds.GuestID)
		req.Header.Set(middlewarectx.GuestKeyHeader, creds.GuestKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (e *testEnv) newGuest(t *testing.T) *Credentials {
	rr := e.do(t, http.MethodPost, "/session", nil, "", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	creds := decode[Credentials](t, rr)
	require.NotEmpty(t, creds.GuestID)
	require.NotEmpty(t, creds.GuestKey)
	return &creds
}

func TestGuestLifecycle(t *testing.T) {
	env := setup(t)
	creds := env.newGuest(t)
	assert.Equal(t, access.StateTrialActive, creds.Session.Access.State)
	assert.Nil(t, creds.Session.Trial)
	assert.True(t, creds.Session.Access.RequiresOnboarding)

	rr := env.do(t, http.MethodPatch, "/session/profile", creds, `{"role":"CEO","objective":"Scale"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	snap := decode[Snapshot](t, rr)
	assert.Equal(t, "CEO", *snap.Profile.Role)
	assert.False(t, snap.Access.RequiresOnboarding)

	rr = env.do(t, http.MethodPost, "/session/trial", creds, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	snap = decode[Snapshot](t, rr)
	require.NotNil(t, snap.Trial)
	start := snap.Trial.Start
	require.NotNil(t, snap.Access.DaysRemaining)
	assert.Equal(t, 3, *snap.Access.DaysRemaining)
	assert.Equal(t, start.Add(72*time.Hour), *snap.TrialEndsAt)

	*env.clock = env.clock.Add(time.Hour)
	rr = env.do(t, http.MethodPost, "/session/trial", creds, "", nil)
	snap = decode[Snapshot](t, rr)
	assert.Equal(t, start, snap.Trial.Start, "trial window is set once")

	rr = env.do(t, http.MethodGet, "/session/notices", creds, "", nil)
	notices := decode[[]models.Notice](t, rr)
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeWelcome, notices[0].Kind)

	rr = env.do(t, http.MethodGet, "/session/notices", creds, "", nil)
	assert.JSONEq(t, `[]`, rr.Body.String())

	*env.clock = start.Add(25 * time.Hour)
	notices = decode[[]models.Notice](t, env.do(t, http.MethodGet, "/session/notices", creds, "", nil))
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeDayTwo, notices[0].Kind)

	*env.clock = start.Add(73 * time.Hour)
	snap = decode[Snapshot](t, env.do(t, http.MethodGet, "/session", creds, "", nil))
	assert.Equal(t, access.StateTrialExpired, snap.Access.State)
	assert.True(t, snap.Access.Expired)
	assert.Equal(t, 0, *snap.Access.DaysRemaining)
	assert.Positive(t, env.obs.gates[string(access.StateTrialExpired)])
	assert.Equal(t, 1, env.obs.notices[string(models.NoticeWelcome)])
}

func TestSessionRequiresKey(t *testing.T) {
	env := setup(t)
	creds := env.newGuest(t)

	rr := env.do(t, http.MethodGet, "/session", &Credentials{GuestID: creds.GuestID, GuestKey: "wrong"}, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/session", &Credentials{GuestID: "missing", GuestKey: "k"}, "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodPatch, "/session/profile", creds, `{`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignInAndOut(t *testing.T) {
	env := setup(t)
	creds := env.newGuest(t)
	env.do(t, http.MethodPost, "/session/trial", creds, "", nil)

	rr := env.do(t, http.MethodPost, "/session/sign-in", creds, "", map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodPost, "/session/sign-in", creds, "", map[string]string{"Authorization": "Bearer good"})
	require.Equal(t, http.StatusOK, rr.Code)
	snap := decode[Snapshot](t, rr)
	assert.Equal(t, access.StateAuthenticated, snap.Access.State)
	assert.False(t, snap.Access.Expired)
	assert.Nil(t, snap.Trial, "guest trial data is not carried over")
	assert.Equal(t, "premium", *snap.Profile.Tier)

	rr = env.do(t, http.MethodGet, "/session", creds, "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "guest record is dropped after sign-in")

	rr = env.do(t, http.MethodPost, "/session/sign-out", nil, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	fresh := decode[Credentials](t, rr)
	assert.NotEqual(t, creds.GuestID, fresh.GuestID)
	assert.Nil(t, fresh.Session.Trial)
	assert.Equal(t, models.KindGuest, fresh.Session.Identity.Kind)

	rr = env.do(t, http.MethodGet, "/session", &fresh, "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
