package google

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/config"
)

// SpeechClient transcribes caller audio with Google Cloud Speech-to-Text.
type SpeechClient struct {
	client   *speech.Client
	language string
}

func NewSpeechClient(ctx context.Context, cfg config.GoogleConfig) (*SpeechClient, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}

	return &SpeechClient{client: client, language: cfg.SpeechLanguage}, nil
}

// Transcribe runs synchronous recognition on mono LINEAR16 WAV audio.
func (s *SpeechClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   16000,
			LanguageCode:      s.language,
			AudioChannelCount: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: audio,
			},
		},
	}

	resp, err := s.client.Recognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		for _, alt := range result.Alternatives {
			transcript.WriteString(alt.Transcript + " ")
		}
	}

	return strings.TrimSpace(transcript.String()), nil
}

func (s *SpeechClient) Close() error {
	return s.client.Close()
}
