package bot

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/viajai/whatsapp-travel-bot/internal/channels/whatsapp"
	"github.com/viajai/whatsapp-travel-bot/internal/conversation"
	"github.com/viajai/whatsapp-travel-bot/internal/observability/metrics"
	"github.com/viajai/whatsapp-travel-bot/pkg/logging"
)

var tracer = otel.Tracer("viajai.internal.bot")

// AudioFallbackReply is sent when a voice note cannot be transcribed.
const AudioFallbackReply = "Não consegui entender o áudio, pode tentar de novo?"

// Responder produces a chat reply for free-form text.
type Responder interface {
	Reply(ctx context.Context, sender, text string) string
}

// FlightSearcher answers an extracted flight query with reply text.
type FlightSearcher interface {
	Search(ctx context.Context, q conversation.FlightQuery) string
}

// Transcriber converts a voice-note media reference to text.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaID string) (string, error)
}

// Messenger is the outbound WhatsApp surface used by the dispatcher.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	MarkRead(ctx context.Context, messageID string) error
	SendTypingIndicator(ctx context.Context, to, messageID string) error
}

// Service routes each inbound message to transcription, flight lookup or the
// AI responder and delivers the resulting reply.
type Service struct {
	classifier  conversation.Classifier
	responder   Responder
	flights     FlightSearcher
	transcriber Transcriber
	messenger   Messenger
	metrics     *metrics.BotMetrics
	logger      *logging.Logger
	typingDelay time.Duration
}

// Config wires the dispatcher's collaborators. Transcriber may be nil when
// speech is not configured; voice notes then get the audio fallback reply.
type Config struct {
	Classifier  conversation.Classifier
	Responder   Responder
	Flights     FlightSearcher
	Transcriber Transcriber
	Messenger   Messenger
	Metrics     *metrics.BotMetrics
	Logger      *logging.Logger
	TypingDelay time.Duration
}

// NewService creates the dispatcher.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		classifier:  cfg.Classifier,
		responder:   cfg.Responder,
		flights:     cfg.Flights,
		transcriber: cfg.Transcriber,
		messenger:   cfg.Messenger,
		metrics:     cfg.Metrics,
		logger:      logger,
		typingDelay: cfg.TypingDelay,
	}
}

// Dispatch starts an independent unit of work for one inbound message. The
// webhook has already been acknowledged by the time this runs, so processing
// uses a background context: no timeout, no cancellation, a slow external
// call stalls only this message.
func (s *Service) Dispatch(msg whatsapp.ParsedInboundMessage) {
	go s.Handle(context.Background(), msg)
}

// Handle processes one inbound message synchronously. Exported separately
// from Dispatch so tests and callers with their own scheduling can drive it.
func (s *Service) Handle(ctx context.Context, msg whatsapp.ParsedInboundMessage) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "bot.handle_message", trace.WithAttributes(
		attribute.String("viajai.sender", msg.Sender),
		attribute.String("viajai.kind", msg.Kind),
	))
	defer span.End()

	logger := s.logger.With("job_id", uuid.NewString(), "sender", msg.Sender, "kind", msg.Kind)
	logger.Info("processing inbound message")

	s.acknowledge(ctx, msg, logger)

	text := msg.Text
	if msg.Kind == whatsapp.KindAudio {
		transcript, err := s.transcribe(ctx, msg.AudioID)
		if err != nil || strings.TrimSpace(transcript) == "" {
			if err != nil {
				logger.Error("transcription failed", "error", err)
				span.RecordError(err)
			} else {
				logger.Warn("transcription came back empty")
			}
			s.metrics.ObserveInbound(msg.Kind, "audio_fallback")
			s.send(ctx, msg.Sender, AudioFallbackReply, logger)
			s.metrics.ObserveLatency(msg.Kind, time.Since(start).Seconds())
			return
		}
		logger.Info("voice note transcribed", "chars", len(transcript))
		text = transcript
	}

	route := "chat"
	var reply string
	if s.classifier.IsFlightQuery(text) {
		if q, ok := s.classifier.ExtractFlightDetails(text); ok {
			route = "flights"
			span.SetAttributes(
				attribute.String("viajai.flight.origin", q.Origin),
				attribute.String("viajai.flight.destination", q.Destination),
			)
			reply = s.flights.Search(ctx, q)
		}
	}
	if reply == "" {
		reply = s.responder.Reply(ctx, msg.Sender, text)
	}

	s.metrics.ObserveInbound(msg.Kind, route)
	s.send(ctx, msg.Sender, reply, logger)
	s.metrics.ObserveLatency(msg.Kind, time.Since(start).Seconds())
}

// acknowledge marks the message read and shows the typing reaction. Both are
// cosmetic; failures are logged and otherwise ignored.
func (s *Service) acknowledge(ctx context.Context, msg whatsapp.ParsedInboundMessage, logger *logging.Logger) {
	if err := s.messenger.MarkRead(ctx, msg.MessageID); err != nil {
		logger.Debug("failed to mark message as read", "error", err)
	}
	if err := s.messenger.SendTypingIndicator(ctx, msg.Sender, msg.MessageID); err != nil {
		logger.Debug("failed to send typing indicator", "error", err)
	} else if s.typingDelay > 0 {
		time.Sleep(s.typingDelay)
	}
}

func (s *Service) transcribe(ctx context.Context, audioID string) (string, error) {
	if s.transcriber == nil {
		return "", errNoTranscriber
	}
	return s.transcriber.Transcribe(ctx, audioID)
}

func (s *Service) send(ctx context.Context, to, body string, logger *logging.Logger) {
	if err := s.messenger.SendText(ctx, to, body); err != nil {
		logger.Error("failed to send reply", "error", err)
		s.metrics.ObserveOutbound("failed")
		return
	}
	logger.Info("reply delivered", "chars", len(body))
	s.metrics.ObserveOutbound("sent")
}
