package strategychat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/services/strategy"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Ask(ctx context.Context, req strategy.Request) (*strategy.Reply, error) {
	args := m.Called(ctx, req)
	reply, _ := args.Get(0).(*strategy.Reply)
	return reply, args.Error(1)
}

type ObserverMock struct {
	mock.Mock
}

func (m *ObserverMock) ObserveUpstream(provider string, err error) {
	m.Called(provider, err)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		reply      *strategy.Reply
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "answer",
			body:       `{"message":"Plan Q3","userRole":"CEO","userObjective":"Growth","conversationHistory":[{"role":"user","content":"hi"}]}`,
			reply:      &strategy.Reply{Response: "Focus.", Model: "gpt-4o-mini"},
			wantStatus: http.StatusOK,
			wantBody:   `{"response":"Focus.","model":"gpt-4o-mini"}`,
		},
		{
			name:       "missing message",
			body:       `{"userRole":"CEO"}`,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Message is required"}`,
		},
		{
			name:       "broken json",
			body:       `{`,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"invalid request body"}`,
		},
		{
			name:       "missing key",
			body:       `{"message":"Plan Q3"}`,
			err:        apperr.Config("OPENAI_API_KEY"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"OPENAI_API_KEY is not configured"}`,
		},
		{
			name:       "upstream failure",
			body:       `{"message":"Plan Q3"}`,
			err:        apperr.Upstream("OpenAI", 429, "slow down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"OpenAI API error: 429 - slow down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			obs := new(ObserverMock)
			if tt.reply != nil || tt.err != nil {
				svc.On("Ask", mock.Anything, mock.AnythingOfType("strategy.Request")).Return(tt.reply, tt.err).Once()
				obs.On("ObserveUpstream", "OpenAI", tt.err).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/ai-strategy-chat", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			New(newNoopLogger(), svc, obs).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			svc.AssertExpectations(t)
			obs.AssertExpectations(t)
		})
	}
}

func TestHandler_ForwardsFields(t *testing.T) {
	svc := new(ServiceMock)
	obs := new(ObserverMock)
	obs.On("ObserveUpstream", "OpenAI", nil)
	svc.On("Ask", mock.Anything, strategy.Request{
		Message:   "Plan Q3",
		Role:      "CFO",
		Objective: "Cost",
		History:   []strategy.Turn{{Role: "assistant", Content: "Earlier answer"}},
	}).Return(&strategy.Reply{Response: "ok", Model: "gpt-4o-mini"}, nil)

	body, err := json.Marshal(Request{
		Message:             "Plan Q3",
		UserRole:            "CFO",
		UserObjective:       "Cost",
		ConversationHistory: []strategy.Turn{{Role: "assistant", Content: "Earlier answer"}},
	})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	New(newNoopLogger(), svc, obs).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ai-strategy-chat", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
