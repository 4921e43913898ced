package rakuten

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"
)

// ComparisonResult is a price comparison across shops for one keyword.
type ComparisonResult struct {
	Items        []Item  `json:"items"` // cheapest first
	LowestPrice  int     `json:"lowest_price"`
	HighestPrice int     `json:"highest_price"`
	AveragePrice float64 `json:"average_price"`
	TotalCount   int     `json:"total_count"`
	Error        string  `json:"error,omitempty"`
}

// ComparePrices searches a keyword sorted by ascending price and summarizes
// the price spread. Items without a price are excluded from the statistics.
func (s *Skill) ComparePrices(ctx context.Context, keyword string) (ComparisonResult, error) {
	if keyword == "" {
		return ComparisonResult{}, fmt.Errorf("rakuten: keyword must not be empty")
	}

	params := s.baseParams()
	params.Add("keyword", keyword)
	params.Add("hits", strconv.Itoa(maxHits))
	params.Add("sort", "+itemPrice")

	data, err := s.doSearch(ctx, params)
	if err != nil {
		s.logger.Error("価格比較に失敗しました", zap.String("keyword", keyword), zap.Error(err))
		return ComparisonResult{Items: []Item{}, Error: err.Error()}, nil
	}

	items := make([]Item, 0, len(data.Items))
	var prices []int
	for _, raw := range data.Items {
		item := parseItem(raw)
		items = append(items, item)
		if item.Price > 0 {
			prices = append(prices, item.Price)
		}
	}

	result := ComparisonResult{Items: items, TotalCount: len(items)}
	if len(prices) > 0 {
		lowest, highest, sum := prices[0], prices[0], 0
		for _, p := range prices {
			if p < lowest {
				lowest = p
			}
			if p > highest {
				highest = p
			}
			sum += p
		}
		result.LowestPrice = lowest
		result.HighestPrice = highest
		result.AveragePrice = math.Round(float64(sum) / float64(len(prices)))
	}
	return result, nil
}

// PointRateResult is the point-reward breakdown for one item.
type PointRateResult struct {
	ItemName        string `json:"item_name"`
	Price           int    `json:"price"`
	BaseRate        int    `json:"base_rate"`
	BonusRate       int    `json:"bonus_rate"`
	TotalRate       int    `json:"total_rate"`
	EstimatedPoints int    `json:"estimated_points"`
	Error           string `json:"error,omitempty"`
}

// GetPointRate looks up one item by its Ichiba item code and computes the
// expected point reward from the item's price and rates.
func (s *Skill) GetPointRate(ctx context.Context, itemCode string) (PointRateResult, error) {
	if itemCode == "" {
		return PointRateResult{}, fmt.Errorf("rakuten: item code must not be empty")
	}

	params := s.baseParams()
	params.Add("itemCode", itemCode)

	data, err := s.doSearch(ctx, params)
	if err != nil {
		s.logger.Error("ポイント情報の取得に失敗しました", zap.String("item_code", itemCode), zap.Error(err))
		return PointRateResult{Error: err.Error()}, nil
	}

	if len(data.Items) == 0 {
		return PointRateResult{Error: "商品が見つかりませんでした。"}, nil
	}

	item := data.Items[0]
	baseRate := item.PointRate
	if baseRate == 0 {
		baseRate = 1
	}
	bonusRate := bonusRateFrom(item.PointRateStartTime)
	totalRate := baseRate + bonusRate

	return PointRateResult{
		ItemName:        item.ItemName,
		Price:           item.ItemPrice,
		BaseRate:        baseRate,
		BonusRate:       bonusRate,
		TotalRate:       totalRate,
		EstimatedPoints: item.ItemPrice * totalRate / 100,
	}, nil
}

// bonusRateFrom reads a bonus rate out of the pointRateStartTime field, which
// only sometimes holds a number (see the rawItem field comment). Non-numeric
// values count as 0.
func bonusRateFrom(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return int(n)
}
