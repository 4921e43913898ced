package weather

import (
	"context"
	"math"

	"go.uber.org/zap"
)

// heatRiskBand is one rung of the heat-risk scale: the estimate belongs to the
// lowest band whose upper bound it falls under.
type heatRiskBand struct {
	upper  float64 // exclusive upper WBGT bound
	label  string
	advice string
}

// heatRiskBands must stay sorted by ascending upper bound.
var heatRiskBands = []heatRiskBand{
	{21, "安全", "特に注意は必要ありません。"},
	{25, "注意", "こまめに水分補給をしてください。"},
	{28, "警戒", "激しい運動は避け、適度に休憩を取ってください。"},
	{31, "厳重警戒", "外出を控え、涼しい環境で過ごしてください。水分・塩分の補給を忘れずに。"},
}

// heatRiskDanger catches everything at or above the last band's bound.
var heatRiskDanger = heatRiskBand{
	label:  "危険",
	advice: "外出を避けてください。エアコンの効いた室内で過ごし、こまめに水分・塩分を補給してください。",
}

// estimateWBGT approximates the wet-bulb globe temperature from air
// temperature (°C) and relative humidity (%). A proper WBGT needs globe
// temperature as well; this simplified form is good enough as a daily
// guideline.
func estimateWBGT(temperature, humidity float64) float64 {
	return 0.725*temperature + 0.0368*humidity + 0.00364*temperature*humidity - 3.246
}

// classifyHeatRisk maps a WBGT estimate to its risk band.
func classifyHeatRisk(wbgt float64) heatRiskBand {
	for _, band := range heatRiskBands {
		if wbgt < band.upper {
			return band
		}
	}
	return heatRiskDanger
}

// CheckHeatstroke estimates the heatstroke risk for the current conditions.
// Only the current observation is fetched; the forecast is not involved.
func (s *Skill) CheckHeatstroke(ctx context.Context, city string) (HeatstrokeResult, error) {
	if city == "" {
		return HeatstrokeResult{}, ErrEmptyCity
	}

	current, err := s.source.CurrentWeather(ctx, city)
	if err != nil {
		s.logger.Error("熱中症リスクの判定に失敗しました", zap.String("city", city), zap.Error(err))
		return HeatstrokeResult{
			RiskLevel: "不明",
			Advice:    errWeatherUnavailable,
			Error:     err.Error(),
		}, nil
	}

	temperature := current.Main.Temp
	humidity := current.Main.Humidity

	wbgt := math.Round(estimateWBGT(temperature, float64(humidity))*10) / 10
	band := classifyHeatRisk(wbgt)

	return HeatstrokeResult{
		RiskLevel:    band.label,
		WBGTEstimate: wbgt,
		Advice:       band.advice,
		Conditions: HeatConditions{
			Temperature: temperature,
			FeelsLike:   current.Main.FeelsLike,
			Humidity:    humidity,
		},
	}, nil
}
