// Package mercari is the Mercari listing skill: it generates listing
// descriptions, price suggestions and category guesses from an item name,
// its condition and an optional brand. Template-based, no network calls.
package mercari

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

var (
	// ErrEmptyItemName is returned when an item name is missing.
	ErrEmptyItemName = errors.New("mercari: item name must not be empty")

	// ErrEmptyCondition is returned when an item condition is missing.
	ErrEmptyCondition = errors.New("mercari: item condition must not be empty")
)

// hashtagWord matches keywords worth tagging: runs of at least two Latin,
// kana, kanji or digit characters.
var hashtagWord = regexp.MustCompile(`[A-Za-zぁ-んァ-ヶ一-龥0-9]{2,}`)

// Skill generates Mercari listing text.
type Skill struct {
	logger *zap.Logger
}

// NewSkill creates the listing skill. A nil logger disables logging.
func NewSkill(logger *zap.Logger) *Skill {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Skill{logger: logger}
}

// Description is a generated listing description.
type Description struct {
	Text           string   `json:"text"`
	Hashtags       []string `json:"hashtags"`
	CharacterCount int      `json:"character_count"`
}

// estimateBasePrice guesses a reference price from the brand, falling back to
// brand names appearing in the item name.
func estimateBasePrice(itemName, brand string) int {
	if brand != "" {
		brandLower := strings.ToLower(brand)
		for _, entry := range brandBasePrices {
			if strings.Contains(brandLower, entry.name) || strings.Contains(entry.name, brandLower) {
				return entry.price
			}
		}
	}

	itemLower := strings.ToLower(itemName)
	for _, entry := range brandBasePrices {
		if strings.Contains(itemLower, entry.name) {
			return entry.price
		}
	}
	return defaultBasePrice
}

// estimateCategory guesses the Mercari category from keywords in the brand
// and item name. First table hit wins.
func estimateCategory(itemName, brand string) string {
	searchText := itemName
	if brand != "" {
		searchText = brand + " " + itemName
	}
	searchText = strings.ToLower(searchText)

	for _, entry := range categoryTable {
		for _, keyword := range entry.keywords {
			if strings.Contains(searchText, strings.ToLower(keyword)) {
				return entry.name
			}
		}
	}
	return categoryOther
}

// generateHashtags builds up to four hashtags: the brand plus the first three
// taggable words of the item name, deduplicated.
func generateHashtags(itemName, brand string) []string {
	var hashtags []string
	if brand != "" {
		hashtags = append(hashtags, "#"+brand)
	}

	words := hashtagWord.FindAllString(itemName, -1)
	if len(words) > 3 {
		words = words[:3]
	}
	for _, word := range words {
		tag := "#" + word
		duplicate := false
		for _, existing := range hashtags {
			if existing == tag {
				duplicate = true
				break
			}
		}
		if !duplicate {
			hashtags = append(hashtags, tag)
		}
	}
	return hashtags
}

// GenerateDescription builds a listing description from the item name, its
// condition and an optional brand.
func (s *Skill) GenerateDescription(itemName, condition, brand string) (Description, error) {
	if itemName == "" {
		return Description{}, ErrEmptyItemName
	}
	if condition == "" {
		return Description{}, ErrEmptyCondition
	}

	conditionDescription := condition + "の状態です。"
	if info, ok := conditionFor(condition); ok {
		conditionDescription = info.label
	}

	hashtags := generateHashtags(itemName, brand)

	title := itemName
	if brand != "" {
		title = fmt.Sprintf("【%s】%s", brand, itemName)
	}

	lines := []string{
		title,
		"",
		"ご覧いただきありがとうございます。",
		"",
		"■ 商品名",
		itemName,
		"",
	}
	if brand != "" {
		lines = append(lines, "■ ブランド", brand, "")
	}
	lines = append(lines, "■ 商品の状態", condition, "", "■ 商品説明")
	if brand != "" {
		lines = append(lines, fmt.Sprintf("%sの%sです。", brand, itemName))
	} else {
		lines = append(lines, itemName+"です。")
	}
	lines = append(lines,
		conditionDescription,
		"",
		"■ 発送について",
		"・匿名配送対応",
		"・24時間以内に発送予定",
		"・丁寧に梱包してお届けします",
		"",
		strings.Join(hashtags, " "),
	)

	text := strings.Join(lines, "\n")
	return Description{
		Text:           text,
		Hashtags:       hashtags,
		CharacterCount: utf8.RuneCountInString(text),
	}, nil
}

// PriceSuggestion is a suggested listing price with its range and basis.
type PriceSuggestion struct {
	SuggestedPrice  int    `json:"suggested_price"`
	MinPrice        int    `json:"min_price"`
	MaxPrice        int    `json:"max_price"`
	BasePrice       int    `json:"base_price"`
	ConditionFactor string `json:"condition_factor"`
}

// roundPrice rounds to the nearest 100 yen with a 300 yen floor, the Mercari
// minimum listing price.
func roundPrice(price float64) int {
	rounded := int(math.Round(price/100)) * 100
	if rounded < 300 {
		return 300
	}
	return rounded
}

// SuggestPrice estimates a fair listing price from the brand reference price
// and the condition's multiplier band.
func (s *Skill) SuggestPrice(itemName, condition string) (PriceSuggestion, error) {
	if itemName == "" {
		return PriceSuggestion{}, ErrEmptyItemName
	}
	if condition == "" {
		return PriceSuggestion{}, ErrEmptyCondition
	}

	basePrice := estimateBasePrice(itemName, "")

	minMultiplier, maxMultiplier := 0.30, 0.50
	if info, ok := conditionFor(condition); ok {
		minMultiplier, maxMultiplier = info.min, info.max
	}
	avgMultiplier := (minMultiplier + maxMultiplier) / 2

	base := float64(basePrice)
	return PriceSuggestion{
		SuggestedPrice: roundPrice(base * avgMultiplier),
		MinPrice:       roundPrice(base * minMultiplier),
		MaxPrice:       roundPrice(base * maxMultiplier),
		BasePrice:      basePrice,
		ConditionFactor: fmt.Sprintf("状態「%s」による価格倍率: %.0f%%-%.0f%%",
			condition, minMultiplier*100, maxMultiplier*100),
	}, nil
}

// PriceRange is the min/max band of a price suggestion.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Listing bundles everything needed to post an item.
type Listing struct {
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Price       int        `json:"price"`
	PriceRange  PriceRange `json:"price_range"`
	PhotoCount  int        `json:"photo_count"`
	Photos      []string   `json:"photos"`
	Hashtags    []string   `json:"hashtags"`
	Tips        []string   `json:"tips"`
}

// GenerateListing produces the description, category guess, price suggestion
// and listing tips in one call.
func (s *Skill) GenerateListing(itemName, condition, brand string, photos []string) (Listing, error) {
	if itemName == "" {
		return Listing{}, ErrEmptyItemName
	}
	if condition == "" {
		return Listing{}, ErrEmptyCondition
	}

	description, err := s.GenerateDescription(itemName, condition, brand)
	if err != nil {
		return Listing{}, err
	}

	price, err := s.SuggestPrice(itemName, condition)
	if err != nil {
		return Listing{}, err
	}

	if photos == nil {
		photos = []string{}
	}

	return Listing{
		Description: description.Text,
		Category:    estimateCategory(itemName, brand),
		Price:       price.SuggestedPrice,
		PriceRange:  PriceRange{Min: price.MinPrice, Max: price.MaxPrice},
		PhotoCount:  len(photos),
		Photos:      photos,
		Hashtags:    description.Hashtags,
		Tips:        listingTips(condition, len(photos)),
	}, nil
}

// listingTips builds advice for the seller from the condition and photo count.
func listingTips(condition string, photoCount int) []string {
	var tips []string

	switch {
	case photoCount == 0:
		tips = append(tips, "写真を追加してください。写真があると売れやすくなります（推奨: 4枚以上）。")
	case photoCount < 4:
		tips = append(tips, fmt.Sprintf("現在%d枚の写真があります。4枚以上あると売れやすくなります。", photoCount))
	default:
		tips = append(tips, fmt.Sprintf("%d枚の写真が設定されています。", photoCount))
	}

	switch condition {
	case "やや傷や汚れあり", "傷や汚れあり", "全体的に状態が悪い":
		tips = append(tips, "傷や汚れがある場合は、該当箇所の写真を追加すると購入者の安心感が高まります。")
	}

	tips = append(tips,
		"タイトルにブランド名・サイズ・色を含めると検索に引っかかりやすくなります。",
		"週末（金曜夜〜日曜）に出品すると閲覧数が上がる傾向があります。",
	)
	return tips
}
