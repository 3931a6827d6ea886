package whatsapp

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WebhookHandler handles Cloud API webhook verification and inbound messages.
type WebhookHandler struct {
	verifyToken string
	onMessage   func(msg ParsedInboundMessage)
}

// NewWebhookHandler creates a webhook handler. onMessage is called once per
// parsed inbound message; it must not block, the handler has already
// acknowledged the webhook by then.
func NewWebhookHandler(verifyToken string, onMessage func(ParsedInboundMessage)) *WebhookHandler {
	return &WebhookHandler{verifyToken: verifyToken, onMessage: onMessage}
}

// HandleVerification handles the GET webhook verification challenge from Meta.
// It echoes the challenge only for a subscribe request with the configured
// verify token; anything else is forbidden. No side effects either way.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleInbound handles POST webhook events. Envelopes that are not a
// whatsapp_business_account notification (including undecodable bodies) get a
// 404 and no further processing. Recognized envelopes are acknowledged with
// 200 regardless of what happens downstream; Meta expects a fast ack that is
// independent of processing outcome.
func (h *WebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	var event WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.Object != expectedObject {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)

	for _, msg := range ParseWebhookEvent(event) {
		if h.onMessage != nil {
			h.onMessage(msg)
		}
	}
}

// ParseWebhookEvent extracts the inbound messages from a webhook event,
// walking entry → changes → value → messages. Message types other than text
// and audio are skipped.
func ParseWebhookEvent(event WebhookEvent) []ParsedInboundMessage {
	var messages []ParsedInboundMessage

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			names := map[string]string{}
			for _, c := range change.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}

			for _, m := range change.Value.Messages {
				parsed := ParsedInboundMessage{
					Sender:      m.From,
					SenderName:  names[m.From],
					MessageID:   m.ID,
					BusinessWID: change.Value.Metadata.PhoneNumberID,
				}

				switch {
				case m.Audio != nil:
					parsed.Kind = KindAudio
					parsed.AudioID = m.Audio.ID
					if parsed.AudioID == "" {
						parsed.AudioID = m.Audio.URL
					}
				case m.Text != nil:
					parsed.Kind = KindText
					parsed.Text = m.Text.Body
				default:
					continue
				}

				messages = append(messages, parsed)
			}
		}
	}

	return messages
}
