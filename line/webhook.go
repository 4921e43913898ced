package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Event is one parsed webhook event. Message-type fields are filled only for
// the matching message type.
type Event struct {
	EventType   string `json:"event_type"`
	UserID      string `json:"user_id"`
	ReplyToken  string `json:"reply_token"`
	MessageType string `json:"message_type,omitempty"`
	Text        string `json:"text,omitempty"`
	ContentID   string `json:"content_id,omitempty"`
	StickerID   string `json:"sticker_id,omitempty"`
	PackageID   string `json:"package_id,omitempty"`
}

// webhookRequest mirrors the webhook body sent by the LINE platform.
type webhookRequest struct {
	Events []struct {
		Type   string `json:"type"`
		Source struct {
			UserID string `json:"userId"`
		} `json:"source"`
		ReplyToken string `json:"replyToken"`
		Message    struct {
			Type      string `json:"type"`
			ID        string `json:"id"`
			Text      string `json:"text"`
			StickerID string `json:"stickerId"`
			PackageID string `json:"packageId"`
		} `json:"message"`
	} `json:"events"`
}

// ParseWebhook extracts the events from a webhook request body.
func (s *Skill) ParseWebhook(body []byte) ([]Event, error) {
	var req webhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("line: failed to parse webhook body: %w", err)
	}

	if len(req.Events) == 0 {
		s.logger.Warn("Webhookデータにイベントが含まれていません")
		return []Event{}, nil
	}

	events := make([]Event, 0, len(req.Events))
	for _, raw := range req.Events {
		event := Event{
			EventType:  raw.Type,
			UserID:     raw.Source.UserID,
			ReplyToken: raw.ReplyToken,
		}
		if raw.Type == "" {
			event.EventType = "unknown"
		}

		if raw.Type == "message" {
			event.MessageType = raw.Message.Type
			if event.MessageType == "" {
				event.MessageType = "unknown"
			}
			switch raw.Message.Type {
			case "text":
				event.Text = raw.Message.Text
			case "image":
				event.ContentID = raw.Message.ID
			case "sticker":
				event.StickerID = raw.Message.StickerID
				event.PackageID = raw.Message.PackageID
			}
		}

		events = append(events, event)
		s.logger.Info("イベントを解析しました",
			zap.String("type", event.EventType),
			zap.String("user_id", event.UserID),
		)
	}
	return events, nil
}

// ValidateSignature checks a webhook body against the X-Line-Signature header
// value: base64 of the HMAC-SHA256 of the body keyed by the channel secret.
// It always fails when the skill has no channel secret.
func (s *Skill) ValidateSignature(body []byte, signature string) bool {
	if s.channelSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
