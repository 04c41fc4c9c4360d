package google

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/config"
)

// TTSClient renders assistant replies as MP3 audio with Google Cloud
// Text-to-Speech.
type TTSClient struct {
	client   *texttospeech.Client
	language string
	voice    string
}

func NewTTSClient(ctx context.Context, cfg config.GoogleConfig) (*TTSClient, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tts client: %w", err)
	}

	return &TTSClient{client: client, language: cfg.SpeechLanguage, voice: cfg.VoiceName}, nil
}

func (t *TTSClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: t.language,
			Name:         t.voice,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	}

	resp, err := t.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	return resp.AudioContent, nil
}

func (t *TTSClient) Close() error {
	return t.client.Close()
}
