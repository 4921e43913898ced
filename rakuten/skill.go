// Package rakuten is the Rakuten Ichiba shopping skill: product search, price
// comparison and point-rate lookup against the Ichiba item search API.
package rakuten

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://app.rakuten.co.jp/services/api"
	searchEndpoint = "/IchibaItem/Search/20220601"

	// maxHits is the number of items requested per search.
	maxHits = 30
)

// Skill searches Rakuten Ichiba with one application ID.
type Skill struct {
	appID       string
	affiliateID string
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// Option configures a Skill.
type Option func(*Skill)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(s *Skill) { s.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Skill) { s.httpClient = hc }
}

// WithRateLimit overrides the request rate limit. The default is 1 request
// per second, the Ichiba API free-tier quota.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Skill) { s.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewSkill creates the Rakuten shopping skill. The affiliate ID is optional.
// A nil logger disables logging.
func NewSkill(appID, affiliateID string, logger *zap.Logger, opts ...Option) (*Skill, error) {
	if appID == "" {
		return nil, fmt.Errorf("rakuten: application ID is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Skill{
		appID:       appID,
		affiliateID: affiliateID,
		baseURL:     defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(1, 1),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// baseParams are the query parameters every Ichiba call needs.
// formatVersion=2 flattens the Items array in the response.
func (s *Skill) baseParams() url.Values {
	params := url.Values{}
	params.Add("applicationId", s.appID)
	params.Add("format", "json")
	params.Add("formatVersion", "2")
	if s.affiliateID != "" {
		params.Add("affiliateId", s.affiliateID)
	}
	return params
}

// rawItem is one item of a formatVersion=2 search response.
type rawItem struct {
	ItemName        string   `json:"itemName"`
	ItemPrice       int      `json:"itemPrice"`
	ItemCode        string   `json:"itemCode"`
	ItemURL         string   `json:"itemUrl"`
	ShopName        string   `json:"shopName"`
	ShopURL         string   `json:"shopUrl"`
	MediumImageURLs []string `json:"mediumImageUrls"`
	ReviewAverage   float64  `json:"reviewAverage"`
	ReviewCount     int      `json:"reviewCount"`
	PointRate       int      `json:"pointRate"`
	// pointRateStartTime is documented as a timestamp but has been observed
	// carrying a numeric bonus rate; treated as bonus rate when numeric and
	// as 0 otherwise. Upstream-schema workaround, kept from the previous
	// implementation.
	PointRateStartTime json.RawMessage `json:"pointRateStartTime"`
	Availability       int             `json:"availability"`
}

// searchResponse is the decoded body of an Ichiba search call.
type searchResponse struct {
	Items     []rawItem `json:"Items"`
	Count     int       `json:"count"`
	Page      int       `json:"page"`
	PageCount int       `json:"pageCount"`
	Hits      int       `json:"hits"`
}

// doSearch waits for the rate limiter, performs the search call and decodes it.
func (s *Skill) doSearch(ctx context.Context, params url.Values) (searchResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return searchResponse{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+searchEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return searchResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return searchResponse{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return searchResponse{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return searchResponse{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var data searchResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return searchResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return data, nil
}

// Item is a normalized search hit.
type Item struct {
	Name          string  `json:"name"`
	Price         int     `json:"price"`
	ItemCode      string  `json:"item_code"`
	ItemURL       string  `json:"item_url"`
	ShopName      string  `json:"shop_name"`
	ShopURL       string  `json:"shop_url"`
	ImageURL      string  `json:"image_url"`
	ReviewAverage float64 `json:"review_average"`
	ReviewCount   int     `json:"review_count"`
	Point         int     `json:"point"`
	Availability  bool    `json:"availability"`
}

// parseItem normalizes one raw API item.
func parseItem(raw rawItem) Item {
	imageURL := ""
	if len(raw.MediumImageURLs) > 0 {
		imageURL = raw.MediumImageURLs[0]
	}
	point := raw.PointRate
	if point == 0 {
		point = 1
	}
	return Item{
		Name:          raw.ItemName,
		Price:         raw.ItemPrice,
		ItemCode:      raw.ItemCode,
		ItemURL:       raw.ItemURL,
		ShopName:      raw.ShopName,
		ShopURL:       raw.ShopURL,
		ImageURL:      imageURL,
		ReviewAverage: raw.ReviewAverage,
		ReviewCount:   raw.ReviewCount,
		Point:         point,
		Availability:  raw.Availability == 1,
	}
}

// SearchOptions narrow a search. Nil price bounds mean no bound.
type SearchOptions struct {
	GenreID  string
	MinPrice *int
	MaxPrice *int
}

// PageInfo is the paging block of a search result.
type PageInfo struct {
	Page      int `json:"page"`
	PageCount int `json:"page_count"`
	Hits      int `json:"hits"`
}

// SearchResult is the outcome of a keyword search.
type SearchResult struct {
	Items      []Item   `json:"items"`
	TotalCount int      `json:"total_count"`
	PageInfo   PageInfo `json:"page_info"`
	Error      string   `json:"error,omitempty"`
}

// Search looks up Ichiba items by keyword, optionally narrowed by genre and
// price range. At most 30 items are returned.
func (s *Skill) Search(ctx context.Context, keyword string, opts SearchOptions) (SearchResult, error) {
	if keyword == "" {
		return SearchResult{}, fmt.Errorf("rakuten: keyword must not be empty")
	}
	if opts.MinPrice != nil && *opts.MinPrice < 0 {
		return SearchResult{}, fmt.Errorf("rakuten: minimum price must not be negative")
	}
	if opts.MaxPrice != nil && *opts.MaxPrice < 0 {
		return SearchResult{}, fmt.Errorf("rakuten: maximum price must not be negative")
	}
	if opts.MinPrice != nil && opts.MaxPrice != nil && *opts.MinPrice > *opts.MaxPrice {
		return SearchResult{}, fmt.Errorf("rakuten: minimum price must not exceed maximum price")
	}

	params := s.baseParams()
	params.Add("keyword", keyword)
	params.Add("hits", strconv.Itoa(maxHits))
	if opts.GenreID != "" {
		params.Add("genreId", opts.GenreID)
	}
	if opts.MinPrice != nil {
		params.Add("minPrice", strconv.Itoa(*opts.MinPrice))
	}
	if opts.MaxPrice != nil {
		params.Add("maxPrice", strconv.Itoa(*opts.MaxPrice))
	}

	data, err := s.doSearch(ctx, params)
	if err != nil {
		s.logger.Error("楽天API呼び出しに失敗しました", zap.String("keyword", keyword), zap.Error(err))
		return SearchResult{Items: []Item{}, Error: err.Error()}, nil
	}

	items := make([]Item, 0, len(data.Items))
	for _, raw := range data.Items {
		items = append(items, parseItem(raw))
	}

	return SearchResult{
		Items:      items,
		TotalCount: data.Count,
		PageInfo: PageInfo{
			Page:      data.Page,
			PageCount: data.PageCount,
			Hits:      data.Hits,
		},
	}, nil
}
