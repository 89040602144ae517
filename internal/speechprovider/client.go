// Package speechprovider — клиент ElevenLabs text-to-speech.
package speechprovider

import (
	"bytes"
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
const Provider = "ElevenLabs"

// VoiceSettings параметры голоса.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// SynthesizeRequest тело запроса синтеза.
type SynthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Client обращается к ElevenLabs.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт клиент ElevenLabs.
func NewClient(cfg config.ElevenLabs, httpClient *http.Client) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		apiURL:     cfg.BaseURL,
		httpClient: httpClient,
	}
}

// Synthesize озвучивает текст голосом voiceID и возвращает MP3.
func (c *Client) Synthesize(ctx context.Context, voiceID string, reqParams SynthesizeRequest) ([]byte, error) {
	const op = "speechprovider.Synthesize"
	if c.apiKey == "" {
		return nil, apperr.Config("ELEVENLABS_API_KEY")
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqParams); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	endpoint := c.apiURL + "/v1/text-to-speech/" + url.PathEscape(voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", op, apperr.Upstream(Provider, resp.StatusCode, string(body)))
	}
	return body, nil
}
