package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const messagingProduct = "whatsapp"

// typingEmoji is the ellipsis reaction used as a typing-bubble stand-in.
const typingEmoji = "…"

// Client sends messages and fetches media via the WhatsApp Cloud API.
type Client struct {
	accessToken string
	businessID  string
	apiBase     string
	httpClient  *http.Client
}

// NewClient creates a Cloud API client. A zero timeout means outbound calls
// are never cut short; a slow Graph API stalls only the request that hit it.
func NewClient(apiBase, businessID, accessToken string, timeout time.Duration) *Client {
	return &Client{
		accessToken: accessToken,
		businessID:  businessID,
		apiBase:     strings.TrimRight(apiBase, "/"),
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// SendText delivers a plain text message to the given recipient.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	req := sendTextRequest{
		MessagingProduct: messagingProduct,
		To:               to,
		Type:             "text",
		Text:             textPayload{Body: body},
	}
	return c.postMessages(ctx, req)
}

// MarkRead flags an inbound message as read so the sender sees blue ticks.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	req := markReadRequest{
		MessagingProduct: messagingProduct,
		Status:           "read",
		MessageID:        messageID,
	}
	return c.postMessages(ctx, req)
}

// SendTypingIndicator reacts to the message with an ellipsis. The Cloud API
// has no real typing bubble, so this is the closest visible signal.
func (c *Client) SendTypingIndicator(ctx context.Context, to, messageID string) error {
	req := reactionRequest{
		MessagingProduct: messagingProduct,
		RecipientType:    "individual",
		To:               to,
		Type:             "reaction",
		Reaction:         reactionPayload{MessageID: messageID, Emoji: typingEmoji},
	}
	return c.postMessages(ctx, req)
}

func (c *Client) postMessages(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiBase, c.businessID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("whatsapp: send message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("whatsapp: read response: %w", err)
	}

	var sendResp sendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil {
		return fmt.Errorf("whatsapp: unmarshal response: %w", err)
	}
	if sendResp.Error != nil {
		return fmt.Errorf("whatsapp: API error %d: %s", sendResp.Error.Code, sendResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whatsapp: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// MediaURL resolves a media ID to its short-lived download URL.
func (c *Client) MediaURL(ctx context.Context, mediaID string) (string, error) {
	url := fmt.Sprintf("%s/%s", c.apiBase, mediaID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("whatsapp: create media request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("whatsapp: fetch media url: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("whatsapp: read media response: %w", err)
	}

	var media mediaResponse
	if err := json.Unmarshal(respBody, &media); err != nil {
		return "", fmt.Errorf("whatsapp: unmarshal media response: %w", err)
	}
	if media.Error != nil {
		return "", fmt.Errorf("whatsapp: API error %d: %s", media.Error.Code, media.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || media.URL == "" {
		return "", fmt.Errorf("whatsapp: media %s not resolvable, status %d", mediaID, resp.StatusCode)
	}
	return media.URL, nil
}

// DownloadMedia fetches the raw payload for a media reference. References
// that already look like URLs are downloaded directly; platform IDs are
// resolved through MediaURL first.
func (c *Client) DownloadMedia(ctx context.Context, mediaRef string) ([]byte, error) {
	url := mediaRef
	if !strings.HasPrefix(mediaRef, "http://") && !strings.HasPrefix(mediaRef, "https://") {
		resolved, err := c.MediaURL(ctx, mediaRef)
		if err != nil {
			return nil, err
		}
		url = resolved
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: create download request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whatsapp: media download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
