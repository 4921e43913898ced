// Package line is the LINE messenger skill: it pushes text, image and sticker
// messages through the LINE Messaging API and parses incoming webhook events.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.line.me/v2/bot"

// maxTextLength is the LINE platform limit for one text message.
const maxTextLength = 5000

var (
	// ErrEmptyMessage is returned when SendText is called with an empty message.
	ErrEmptyMessage = errors.New("line: message must not be empty")

	// ErrEmptyRecipient is returned when a send method has no destination user ID.
	ErrEmptyRecipient = errors.New("line: recipient user ID must not be empty")
)

// SendResult is the outcome of a push-message call.
// Status is "ok" on success and "error" otherwise, with the failure reason in
// Error and the API error body (when parseable) in Details.
type SendResult struct {
	Status  string                 `json:"status"`
	Error   string                 `json:"error,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Skill sends and receives LINE messages for one channel.
type Skill struct {
	channelAccessToken string
	channelSecret      string
	baseURL            string
	httpClient         *http.Client
	logger             *zap.Logger
}

// Option configures a Skill.
type Option func(*Skill)

// WithBaseURL overrides the LINE API base URL (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(s *Skill) { s.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Skill) { s.httpClient = hc }
}

// NewSkill creates the LINE messenger skill. The channel access token is
// required; the channel secret is only needed for webhook signature checks.
// A nil logger disables logging.
func NewSkill(channelAccessToken, channelSecret string, logger *zap.Logger, opts ...Option) (*Skill, error) {
	if channelAccessToken == "" {
		return nil, fmt.Errorf("line: channel access token is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Skill{
		channelAccessToken: channelAccessToken,
		channelSecret:      channelSecret,
		baseURL:            defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type imageMessage struct {
	Type               string `json:"type"`
	OriginalContentURL string `json:"originalContentUrl"`
	PreviewImageURL    string `json:"previewImageUrl"`
}

// SendText pushes a text message to a user.
// The message must be non-empty and at most 5000 characters.
func (s *Skill) SendText(ctx context.Context, to, message string) (SendResult, error) {
	if to == "" {
		return SendResult{}, ErrEmptyRecipient
	}
	if message == "" {
		return SendResult{}, ErrEmptyMessage
	}
	if n := utf8.RuneCountInString(message); n > maxTextLength {
		return SendResult{}, fmt.Errorf("line: message too long (%d characters, max %d)", n, maxTextLength)
	}

	return s.pushMessage(ctx, to, []interface{}{
		textMessage{Type: "text", Text: message},
	}), nil
}

// SendImage pushes an image message to a user. The image URL must be HTTPS.
func (s *Skill) SendImage(ctx context.Context, to, imageURL string) (SendResult, error) {
	if to == "" {
		return SendResult{}, ErrEmptyRecipient
	}
	if !strings.HasPrefix(imageURL, "https://") {
		return SendResult{}, fmt.Errorf("line: image URL must use HTTPS")
	}

	return s.pushMessage(ctx, to, []interface{}{
		imageMessage{
			Type:               "image",
			OriginalContentURL: imageURL,
			PreviewImageURL:    imageURL,
		},
	}), nil
}

// pushMessage calls the push endpoint. Transport and API failures come back
// as an error-status result, never as an error.
func (s *Skill) pushMessage(ctx context.Context, to string, messages []interface{}) SendResult {
	payload := map[string]interface{}{
		"to":       to,
		"messages": messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SendResult{Status: "error", Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/message/push", bytes.NewReader(body))
	if err != nil {
		return SendResult{Status: "error", Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+s.channelAccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("ネットワークエラー", zap.Error(err))
		return SendResult{Status: "error", Error: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return SendResult{Status: "error", Error: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		// the API reports failures as a JSON body; keep it when it parses
		var details map[string]interface{}
		_ = json.Unmarshal(respBody, &details)

		s.logger.Error("メッセージの送信に失敗しました",
			zap.String("to", to),
			zap.Int("status", resp.StatusCode),
			zap.Any("body", details),
		)
		return SendResult{
			Status:  "error",
			Error:   fmt.Sprintf("API error (status %d)", resp.StatusCode),
			Details: details,
		}
	}

	s.logger.Info("メッセージを送信しました", zap.String("to", to))
	return SendResult{Status: "ok"}
}
