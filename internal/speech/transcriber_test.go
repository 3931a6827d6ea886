package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/api/option"

	"github.com/viajai/whatsapp-travel-bot/pkg/logging"
)

type stubMedia struct {
	audio []byte
	err   error
	last  string
}

func (s *stubMedia) DownloadMedia(_ context.Context, mediaID string) ([]byte, error) {
	s.last = mediaID
	return s.audio, s.err
}

func newTestTranscriber(t *testing.T, media MediaFetcher, handler http.HandlerFunc) *Transcriber {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	tr, err := New(context.Background(), "test-key", media, logging.Default(),
		option.WithEndpoint(ts.URL),
	)
	if err != nil {
		t.Fatalf("new transcriber: %v", err)
	}
	return tr
}

func TestNewValidation(t *testing.T) {
	if _, err := New(context.Background(), "", &stubMedia{}, nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := New(context.Background(), "key", nil, nil); err == nil {
		t.Fatal("expected error for missing media fetcher")
	}
}

func TestTranscribeJoinsSegments(t *testing.T) {
	media := &stubMedia{audio: []byte("opus-bytes")}
	var gotContent string
	tr := newTestTranscriber(t, media, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Config struct {
				Encoding        string `json:"encoding"`
				SampleRateHertz int64  `json:"sampleRateHertz"`
				LanguageCode    string `json:"languageCode"`
			} `json:"config"`
			Audio struct {
				Content string `json:"content"`
			} `json:"audio"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("unmarshal recognize request: %v", err)
		}
		if req.Config.Encoding != "OGG_OPUS" || req.Config.SampleRateHertz != 16000 || req.Config.LanguageCode != "pt-BR" {
			t.Errorf("unexpected recognizer config: %+v", req.Config)
		}
		gotContent = req.Audio.Content

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"alternatives":[{"transcript":"quero ir para Lisboa"},{"transcript":"ignored"}]},
			{"alternatives":[{"transcript":"saindo de São Paulo"}]}
		]}`))
	})

	text, err := tr.Transcribe(context.Background(), "media-123")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "quero ir para Lisboa saindo de São Paulo" {
		t.Fatalf("unexpected transcript: %q", text)
	}
	if media.last != "media-123" {
		t.Fatalf("expected media-123 download, got %q", media.last)
	}
	if gotContent != base64.StdEncoding.EncodeToString([]byte("opus-bytes")) {
		t.Fatalf("audio content was not base64 of the downloaded payload")
	}
}

func TestTranscribeEmptyResults(t *testing.T) {
	tr := newTestTranscriber(t, &stubMedia{audio: []byte("x")}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})
	text, err := tr.Transcribe(context.Background(), "m")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty transcript, got %q", text)
	}
}

func TestTranscribeMediaError(t *testing.T) {
	tr := newTestTranscriber(t, &stubMedia{err: errors.New("404 media")}, func(w http.ResponseWriter, r *http.Request) {
		t.Error("recognizer should not be called when media download fails")
	})
	if _, err := tr.Transcribe(context.Background(), "m"); err == nil {
		t.Fatal("expected media download error")
	}
}

func TestTranscribeRecognizerError(t *testing.T) {
	tr := newTestTranscriber(t, &stubMedia{audio: []byte("x")}, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"internal"}}`, http.StatusInternalServerError)
	})
	if _, err := tr.Transcribe(context.Background(), "m"); err == nil {
		t.Fatal("expected recognizer error")
	}
}
