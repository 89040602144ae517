// Package speech озвучивает текст одним из фиксированных голосов.
package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/speechprovider"
)

// DefaultVoice используется для пустого или неизвестного имени голоса.
const DefaultVoice = "Aria"

const (
	stability       = 0.5
	similarityBoost = 0.75
)

// Voices имена голосов и их идентификаторы у провайдера.
var Voices = map[string]string{
	"Aria":      "9BWtsMINqrJLrRacOk9x",
	"Roger":     "CwhRBWXzGAHq8TQ4Fs17",
	"Sarah":     "EXAVITQu4vr4xnSDxMaL",
	"Laura":     "FGY2WhTYpPnrIDTdsKH5",
	"Charlie":   "IKne3meq5aSn9XLyUdCD",
	"George":    "JBFqnCBsd6RMkjVDRZzb",
	"Callum":    "N2lVS1w4EtoT3dr4eOWO",
	"River":     "SAz9YHcvj6GT2YYXdXww",
	"Liam":      "TX3LPaxmHKxFdv7VOQHJ",
	"Charlotte": "XB0fDUnXU5powFXDhCwa",
	"Alice":     "Xb7hH8MSUJpSbSDYk0k2",
	"Matilda":   "XrExE9yKIg1WjnnlVkGX",
	"Will":      "bIHbv24MWmeRgasZH58o",
	"Jessica":   "cgSgspJ2msm6clMCkdW9",
	"Eric":      "cjVigY5qzO86Huf0OWal",
	"Chris":     "iP95p4xoKVk53GoZ742B",
	"Brian":     "nPczCjzI2devNBz1zQrb",
	"Daniel":    "onwK4e9ZLuTAKqWW03F9",
	"Lily":      "pFZP5JQG7iQjIQuC4Bku",
	"Bill":      "pqHfZKP75CvOlQylNhV4",
}

// Synthesizer провайдер синтеза речи.
type Synthesizer interface {
	Synthesize(ctx context.Context, voiceID string, req speechprovider.SynthesizeRequest) ([]byte, error)
}

// Result озвученный текст.
type Result struct {
	AudioContent string
	Voice        string
	Model        string
}

// Service синтез речи.
type Service struct {
	tts          Synthesizer
	defaultModel string
}

// New создаёт Service; defaultModel подставляется, если модель не указана.
func New(tts Synthesizer, defaultModel string) *Service {
	return &Service{tts: tts, defaultModel: defaultModel}
}

// ResolveVoice возвращает имя и идентификатор голоса.
func ResolveVoice(name string) (string, string) {
	if id, ok := Voices[name]; ok {
		return name, id
	}
	return DefaultVoice, Voices[DefaultVoice]
}

// Speak озвучивает text и возвращает аудио в base64.
func (s *Service) Speak(ctx context.Context, text, voice, model string) (*Result, error) {
	const op = "services.speech.Speak"
	if strings.TrimSpace(text) == "" {
		return nil, apperr.InvalidInput("Text is required")
	}
	if model == "" {
		model = s.defaultModel
	}
	name, voiceID := ResolveVoice(voice)

	audio, err := s.tts.Synthesize(ctx, voiceID, speechprovider.SynthesizeRequest{
		Text:    text,
		ModelID: model,
		VoiceSettings: speechprovider.VoiceSettings{
			Stability:       stability,
			SimilarityBoost: similarityBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Result{
		AudioContent: base64.StdEncoding.EncodeToString(audio),
		Voice:        name,
		Model:        model,
	}, nil
}
