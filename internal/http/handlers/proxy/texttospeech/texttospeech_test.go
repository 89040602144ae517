package texttospeech

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/services/speech"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Speak(ctx context.Context, text, voice, model string) (*speech.Result, error) {
	args := m.Called(ctx, text, voice, model)
	res, _ := args.Get(0).(*speech.Result)
	return res, args.Error(1)
}

type nopObserver struct{}

func (nopObserver) ObserveUpstream(string, error) {}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m *ServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name: "synthesized",
			body: `{"text":"Hello","voice":"Roger"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Speak", mock.Anything, "Hello", "Roger", "").
					Return(&speech.Result{AudioContent: "bXAz", Voice: "Roger", Model: "eleven_multilingual_v2"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"audioContent":"bXAz","voice":"Roger","model":"eleven_multilingual_v2"}`,
		},
		{
			name:       "missing text",
			body:       `{"voice":"Roger"}`,
			setupMock:  func(*ServiceMock) {},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Text is required"}`,
		},
		{
			name: "provider error",
			body: `{"text":"Hello"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Speak", mock.Anything, "Hello", "", "").
					Return(nil, apperr.Upstream("ElevenLabs", 401, "invalid key"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"ElevenLabs API error: 401 - invalid key"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			rr := httptest.NewRecorder()
			New(newNoopLogger(), svc, nopObserver{}).
				ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/text-to-speech", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
