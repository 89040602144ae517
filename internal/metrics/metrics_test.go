package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveUpstream("OpenAI", nil)
	m.ObserveUpstream("OpenAI", nil)
	m.ObserveUpstream("OpenAI", apperr.Upstream("OpenAI", 500, "x"))
	m.ObserveUpstream("Stripe", apperr.Forbidden("nope"))
	m.ObserveUpstream("OpenAI", apperr.InvalidInput("Message is required"))
	m.ObserveUpstream("ElevenLabs", apperr.Config("ELEVENLABS_API_KEY"))
	m.ObserveUpstream("Supabase", fmt.Errorf("op: %w", apperr.Auth("Invalid or expired token")))
	m.ObserveUpstream("ElevenLabs", errors.New("dial tcp: i/o timeout"))
	m.ObserveGate("trial_expired")
	m.ObserveNotice("welcome")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamCalls.WithLabelValues("OpenAI", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamCalls.WithLabelValues("OpenAI", "upstream")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamCalls.WithLabelValues("ElevenLabs", "internal")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.upstreamCalls), "errors raised before a provider call are not counted")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateDecisions.WithLabelValues("trial_expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notices.WithLabelValues("welcome")))
}

func TestNew_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
