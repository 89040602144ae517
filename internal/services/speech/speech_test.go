package speech

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
	"github.com/magabrotheeeer/executive-coach/internal/speechprovider"
)

type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, voiceID string, req speechprovider.SynthesizeRequest) ([]byte, error) {
	args := m.Called(ctx, voiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func TestResolveVoice(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantID   string
	}{
		{in: "Roger", wantName: "Roger", wantID: "CwhRBWXzGAHq8TQ4Fs17"},
		{in: "Bill", wantName: "Bill", wantID: "pqHfZKP75CvOlQylNhV4"},
		{in: "", wantName: "Aria", wantID: "9BWtsMINqrJLrRacOk9x"},
		{in: "Nobody", wantName: "Aria", wantID: "9BWtsMINqrJLrRacOk9x"},
	}
	for _, tt := range tests {
		name, id := ResolveVoice(tt.in)
		assert.Equal(t, tt.wantName, name)
		assert.Equal(t, tt.wantID, id)
	}
	assert.Len(t, Voices, 20)
}

func TestSpeak(t *testing.T) {
	ctx := context.Background()
	tts := new(MockSynthesizer)
	tts.On("Synthesize", ctx, "JBFqnCBsd6RMkjVDRZzb", speechprovider.SynthesizeRequest{
		Text:          "Hello",
		ModelID:       "eleven_multilingual_v2",
		VoiceSettings: speechprovider.VoiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	}).Return([]byte("mp3"), nil)

	res, err := New(tts, "eleven_multilingual_v2").Speak(ctx, "Hello", "George", "")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("mp3")), res.AudioContent)
	assert.Equal(t, "George", res.Voice)
	assert.Equal(t, "eleven_multilingual_v2", res.Model)
	tts.AssertExpectations(t)
}

func TestSpeak_ExplicitModel(t *testing.T) {
	ctx := context.Background()
	tts := new(MockSynthesizer)
	tts.On("Synthesize", ctx, Voices[DefaultVoice], mock.MatchedBy(func(req speechprovider.SynthesizeRequest) bool {
		return req.ModelID == "eleven_turbo_v2"
	})).Return([]byte{1, 2, 3}, nil)

	res, err := New(tts, "eleven_multilingual_v2").Speak(ctx, "Hi", "unknown", "eleven_turbo_v2")
	require.NoError(t, err)
	assert.Equal(t, "AQID", res.AudioContent)
	assert.Equal(t, "Aria", res.Voice)
}

func TestSpeak_Errors(t *testing.T) {
	ctx := context.Background()
	tts := new(MockSynthesizer)

	_, err := New(tts, "m").Speak(ctx, "", "Aria", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	tts.On("Synthesize", ctx, mock.Anything, mock.Anything).Return(nil, apperr.Config("ELEVENLABS_API_KEY"))
	_, err = New(tts, "m").Speak(ctx, "text", "Aria", "")
	assert.ErrorIs(t, err, apperr.ErrConfig)
}
