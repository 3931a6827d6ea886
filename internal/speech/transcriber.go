package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"

	"github.com/viajai/whatsapp-travel-bot/pkg/logging"
)

// Voice notes arrive from WhatsApp as Opus in an Ogg container at 16 kHz;
// the recognizer config is fixed to match.
const (
	audioEncoding   = "OGG_OPUS"
	sampleRateHertz = 16000
	languageCode    = "pt-BR"
)

// MediaFetcher retrieves the raw audio payload for a platform media ID.
type MediaFetcher interface {
	DownloadMedia(ctx context.Context, mediaID string) ([]byte, error)
}

// Transcriber converts WhatsApp voice notes to text using the Google
// Speech-to-Text API.
type Transcriber struct {
	svc    *speech.Service
	media  MediaFetcher
	logger *logging.Logger
}

// New creates a transcriber. Extra client options are accepted so tests can
// point the service at a local server.
func New(ctx context.Context, apiKey string, media MediaFetcher, logger *logging.Logger, opts ...option.ClientOption) (*Transcriber, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("speech: api key is required")
	}
	if media == nil {
		return nil, errors.New("speech: media fetcher is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := speech.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("speech: failed to create service: %w", err)
	}
	return &Transcriber{svc: svc, media: media, logger: logger}, nil
}

// Transcribe downloads the referenced voice note and runs it through the
// recognizer. The result joins the first alternative of every segment with a
// single space. Callers decide the user-facing message for errors and for
// empty transcripts.
func (t *Transcriber) Transcribe(ctx context.Context, mediaID string) (string, error) {
	audio, err := t.media.DownloadMedia(ctx, mediaID)
	if err != nil {
		return "", fmt.Errorf("speech: download media %s: %w", mediaID, err)
	}

	req := &speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			Encoding:        audioEncoding,
			SampleRateHertz: sampleRateHertz,
			LanguageCode:    languageCode,
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(audio),
		},
	}

	resp, err := t.svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("speech: recognize: %w", err)
	}

	var segments []string
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		segments = append(segments, result.Alternatives[0].Transcript)
	}
	transcript := strings.Join(segments, " ")
	t.logger.Debug("transcribed voice note", "media_id", mediaID, "chars", len(transcript))
	return transcript, nil
}
