// Package notion is a lightweight Notion skill: page create/read, database
// records and an auto-generated daily-report template, with a small
// Markdown-to-block converter.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
)

// PageResult is the outcome of creating a page.
type PageResult struct {
	PageID  string                 `json:"page_id"`
	URL     string                 `json:"url"`
	Title   string                 `json:"title"`
	Error   string                 `json:"error,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PageContent is a page read back as plain text.
type PageContent struct {
	Title       string                 `json:"title"`
	Content     string                 `json:"content"`
	LastEdited  string                 `json:"last_edited"`
	CreatedTime string                 `json:"created_time"`
	Error       string                 `json:"error,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// Skill talks to the Notion API with one integration token.
type Skill struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Skill.
type Option func(*Skill)

// WithBaseURL overrides the Notion API base URL (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(s *Skill) { s.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Skill) { s.httpClient = hc }
}

// NewSkill creates the Notion skill. A nil logger disables logging.
func NewSkill(apiKey string, logger *zap.Logger, opts ...Option) (*Skill, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("notion: API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Skill{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
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

// apiError carries the HTTP status and the parsed error body of a failed call.
type apiError struct {
	status  int
	details map[string]interface{}
}

func (e *apiError) Error() string {
	return fmt.Sprintf("API error (status %d)", e.status)
}

// doJSON performs an API request with the standard headers and decodes the
// response into out. Non-2xx responses come back as *apiError.
func (s *Skill) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", apiVersion)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var details map[string]interface{}
		_ = json.Unmarshal(body, &details)
		return &apiError{status: resp.StatusCode, details: details}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// errorDetails extracts the API error body when err is an *apiError.
func errorDetails(err error) map[string]interface{} {
	if apiErr, ok := err.(*apiError); ok {
		return apiErr.details
	}
	return nil
}

// CreatePage creates a child page under a parent page. The content, when
// given, is converted from the supported Markdown subset into blocks.
func (s *Skill) CreatePage(ctx context.Context, parentID, title, content string) (PageResult, error) {
	if parentID == "" {
		return PageResult{}, fmt.Errorf("notion: parent page ID must not be empty")
	}
	if title == "" {
		return PageResult{}, fmt.Errorf("notion: page title must not be empty")
	}

	payload := map[string]interface{}{
		"parent": map[string]interface{}{"page_id": parentID},
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"title": buildRichText(title),
			},
		},
	}
	if content != "" {
		payload["children"] = ContentToBlocks(content)
	}

	var created struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := s.doJSON(ctx, "POST", "/pages", payload, &created); err != nil {
		s.logger.Error("ページの作成に失敗しました", zap.String("title", title), zap.Error(err))
		return PageResult{Title: title, Error: err.Error(), Details: errorDetails(err)}, nil
	}

	s.logger.Info("ページを作成しました", zap.String("id", created.ID), zap.String("title", title))
	return PageResult{PageID: created.ID, URL: created.URL, Title: title}, nil
}

// ReadPage fetches a page's metadata and child blocks and flattens the block
// text back into the Markdown subset ContentToBlocks understands.
func (s *Skill) ReadPage(ctx context.Context, pageID string) (PageContent, error) {
	if pageID == "" {
		return PageContent{}, fmt.Errorf("notion: page ID must not be empty")
	}

	var page struct {
		CreatedTime    string                            `json:"created_time"`
		LastEditedTime string                            `json:"last_edited_time"`
		Properties     map[string]map[string]interface{} `json:"properties"`
	}
	if err := s.doJSON(ctx, "GET", "/pages/"+pageID, nil, &page); err != nil {
		s.logger.Error("ページの読み取りに失敗しました", zap.String("id", pageID), zap.Error(err))
		return PageContent{Error: err.Error(), Details: errorDetails(err)}, nil
	}

	// the title lives in whichever property has type "title"
	title := ""
	for _, prop := range page.Properties {
		if propType, _ := prop["type"].(string); propType == "title" {
			items, _ := prop["title"].([]interface{})
			title = plainText(items)
			break
		}
	}

	var blocks struct {
		Results []map[string]interface{} `json:"results"`
	}
	if err := s.doJSON(ctx, "GET", "/blocks/"+pageID+"/children", nil, &blocks); err != nil {
		s.logger.Error("ページの読み取りに失敗しました", zap.String("id", pageID), zap.Error(err))
		return PageContent{Error: err.Error(), Details: errorDetails(err)}, nil
	}

	content := blocksToText(blocks.Results)

	s.logger.Info("ページを読み取りました", zap.String("id", pageID))
	return PageContent{
		Title:       title,
		Content:     content,
		LastEdited:  page.LastEditedTime,
		CreatedTime: page.CreatedTime,
	}, nil
}
