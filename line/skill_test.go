package line

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSkill(t *testing.T, baseURL string) *Skill {
	t.Helper()
	skill, err := NewSkill("test-token", "test-secret", nil, WithBaseURL(baseURL))
	require.NoError(t, err)
	return skill
}

func TestNewSkill(t *testing.T) {
	_, err := NewSkill("", "secret", nil)
	assert.Error(t, err)
}

func TestSendText(t *testing.T) {
	ctx := context.Background()

	t.Run("pushes to the message endpoint", func(t *testing.T) {
		var got map[string]interface{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/message/push", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &got))
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		result, err := newTestSkill(t, server.URL).SendText(ctx, "U123", "こんにちは")
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)
		assert.Empty(t, result.Error)

		assert.Equal(t, "U123", got["to"])
		messages := got["messages"].([]interface{})
		require.Len(t, messages, 1)
		message := messages[0].(map[string]interface{})
		assert.Equal(t, "text", message["type"])
		assert.Equal(t, "こんにちは", message["text"])
	})

	t.Run("empty recipient and message are hard errors", func(t *testing.T) {
		skill := newTestSkill(t, "http://unused.test")

		_, err := skill.SendText(ctx, "", "hi")
		assert.ErrorIs(t, err, ErrEmptyRecipient)

		_, err = skill.SendText(ctx, "U123", "")
		assert.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("overlong message is rejected before sending", func(t *testing.T) {
		skill := newTestSkill(t, "http://unused.test")
		_, err := skill.SendText(ctx, "U123", strings.Repeat("あ", maxTextLength+1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "message too long")
	})

	t.Run("message of exactly the limit is accepted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		result, err := newTestSkill(t, server.URL).SendText(ctx, "U123", strings.Repeat("あ", maxTextLength))
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)
	})

	t.Run("API failure becomes an error-status result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"The request body has 1 error(s)"}`))
		}))
		defer server.Close()

		result, err := newTestSkill(t, server.URL).SendText(ctx, "U123", "hi")
		require.NoError(t, err)
		assert.Equal(t, "error", result.Status)
		assert.Contains(t, result.Error, "API error (status 400)")
		assert.Equal(t, "The request body has 1 error(s)", result.Details["message"])
	})
}

func TestSendImage(t *testing.T) {
	ctx := context.Background()

	t.Run("sends original and preview URLs", func(t *testing.T) {
		var got map[string]interface{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &got))
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		result, err := newTestSkill(t, server.URL).SendImage(ctx, "U123", "https://example.com/photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)

		message := got["messages"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "image", message["type"])
		assert.Equal(t, "https://example.com/photo.jpg", message["originalContentUrl"])
		assert.Equal(t, "https://example.com/photo.jpg", message["previewImageUrl"])
	})

	t.Run("rejects non-HTTPS URLs", func(t *testing.T) {
		skill := newTestSkill(t, "http://unused.test")
		_, err := skill.SendImage(ctx, "U123", "http://example.com/photo.jpg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTPS")
	})
}

func TestParseWebhook(t *testing.T) {
	skill := newTestSkill(t, "http://unused.test")

	t.Run("text message event", func(t *testing.T) {
		body := []byte(`{"events":[{"type":"message","source":{"userId":"U123"},"replyToken":"r1","message":{"type":"text","id":"m1","text":"天気教えて"}}]}`)

		events, err := skill.ParseWebhook(body)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "message", events[0].EventType)
		assert.Equal(t, "U123", events[0].UserID)
		assert.Equal(t, "r1", events[0].ReplyToken)
		assert.Equal(t, "text", events[0].MessageType)
		assert.Equal(t, "天気教えて", events[0].Text)
	})

	t.Run("sticker message event", func(t *testing.T) {
		body := []byte(`{"events":[{"type":"message","source":{"userId":"U123"},"message":{"type":"sticker","stickerId":"52002734","packageId":"11537"}}]}`)

		events, err := skill.ParseWebhook(body)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "sticker", events[0].MessageType)
		assert.Equal(t, "52002734", events[0].StickerID)
		assert.Equal(t, "11537", events[0].PackageID)
	})

	t.Run("image message carries the content ID", func(t *testing.T) {
		body := []byte(`{"events":[{"type":"message","source":{"userId":"U123"},"message":{"type":"image","id":"m42"}}]}`)

		events, err := skill.ParseWebhook(body)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "image", events[0].MessageType)
		assert.Equal(t, "m42", events[0].ContentID)
	})

	t.Run("missing type falls back to unknown", func(t *testing.T) {
		body := []byte(`{"events":[{"source":{"userId":"U123"}}]}`)

		events, err := skill.ParseWebhook(body)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "unknown", events[0].EventType)
	})

	t.Run("no events is not an error", func(t *testing.T) {
		events, err := skill.ParseWebhook([]byte(`{"events":[]}`))
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		_, err := skill.ParseWebhook([]byte(`not json`))
		assert.Error(t, err)
	})
}

func TestValidateSignature(t *testing.T) {
	skill := newTestSkill(t, "http://unused.test")
	body := []byte(`{"events":[]}`)

	sign := func(secret string) string {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		return base64.StdEncoding.EncodeToString(mac.Sum(nil))
	}

	assert.True(t, skill.ValidateSignature(body, sign("test-secret")))
	assert.False(t, skill.ValidateSignature(body, sign("wrong-secret")))
	assert.False(t, skill.ValidateSignature(body, ""))

	noSecret, err := NewSkill("token", "", nil)
	require.NoError(t, err)
	assert.False(t, noSecret.ValidateSignature(body, sign("test-secret")))
}
