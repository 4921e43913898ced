package notion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Property is one database-record property. Properties are an ordered slice
// because the first one becomes the record's title property.
type Property struct {
	Name  string
	Value interface{}
}

// RecordResult is the outcome of adding a database record.
type RecordResult struct {
	RecordID string                 `json:"record_id"`
	URL      string                 `json:"url"`
	Error    string                 `json:"error,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// ReportResult is the outcome of generating a daily report.
type ReportResult struct {
	RecordID string                 `json:"record_id"`
	URL      string                 `json:"url"`
	Date     string                 `json:"date"`
	Template string                 `json:"template"`
	Error    string                 `json:"error,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// convertProperties maps property values to their Notion wire types: the
// first property becomes the title, YYYY-MM-DD strings become dates, bools
// checkboxes, numbers numbers, and everything else rich text.
func convertProperties(properties []Property) map[string]interface{} {
	converted := make(map[string]interface{}, len(properties))
	for i, prop := range properties {
		text := fmt.Sprint(prop.Value)
		switch {
		case i == 0:
			converted[prop.Name] = map[string]interface{}{"title": buildRichText(text)}
		case isDateString(text):
			converted[prop.Name] = map[string]interface{}{"date": map[string]interface{}{"start": text}}
		default:
			switch v := prop.Value.(type) {
			case bool:
				converted[prop.Name] = map[string]interface{}{"checkbox": v}
			case int, int64, float64:
				converted[prop.Name] = map[string]interface{}{"number": v}
			default:
				converted[prop.Name] = map[string]interface{}{"rich_text": buildRichText(text)}
			}
		}
	}
	return converted
}

// isDateString reports whether a value is a YYYY-MM-DD date.
func isDateString(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

// AddDatabaseRecord adds a record (page) to a database. The first property is
// used as the record's title.
func (s *Skill) AddDatabaseRecord(ctx context.Context, databaseID string, properties []Property) (RecordResult, error) {
	if databaseID == "" {
		return RecordResult{}, fmt.Errorf("notion: database ID must not be empty")
	}
	if len(properties) == 0 {
		return RecordResult{}, fmt.Errorf("notion: properties must not be empty")
	}

	payload := map[string]interface{}{
		"parent":     map[string]interface{}{"database_id": databaseID},
		"properties": convertProperties(properties),
	}

	var created struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := s.doJSON(ctx, "POST", "/pages", payload, &created); err != nil {
		s.logger.Error("レコードの追加に失敗しました", zap.Error(err))
		return RecordResult{Error: err.Error(), Details: errorDetails(err)}, nil
	}

	s.logger.Info("レコードを追加しました", zap.String("id", created.ID))
	return RecordResult{RecordID: created.ID, URL: created.URL}, nil
}

// weekdayNames is indexed by time.Weekday (Sunday first).
var weekdayNames = []string{"日", "月", "火", "水", "木", "金", "土"}

// reportTemplate builds the daily-report body for a date.
func reportTemplate(dateStr, weekday string) string {
	lines := []string{
		fmt.Sprintf("## 日報 %s（%s）", dateStr, weekday),
		"",
		"### 今日のタスク",
		"- [ ] ",
		"- [ ] ",
		"- [ ] ",
		"",
		"### 完了したタスク",
		"- ",
		"",
		"### 明日の予定",
		"- ",
		"",
		"### メモ・気づき",
		"",
	}
	return strings.Join(lines, "\n")
}

// GenerateDailyReport adds today's daily-report template to a database.
// The record gets a 名前 title property and a 日付 date property.
func (s *Skill) GenerateDailyReport(ctx context.Context, databaseID string) (ReportResult, error) {
	if databaseID == "" {
		return ReportResult{}, fmt.Errorf("notion: database ID must not be empty")
	}

	today := time.Now()
	dateStr := today.Format("2006-01-02")
	weekday := weekdayNames[today.Weekday()]

	title := fmt.Sprintf("日報 %s（%s）", dateStr, weekday)
	template := reportTemplate(dateStr, weekday)

	payload := map[string]interface{}{
		"parent": map[string]interface{}{"database_id": databaseID},
		"properties": map[string]interface{}{
			"名前": map[string]interface{}{"title": buildRichText(title)},
			"日付": map[string]interface{}{"date": map[string]interface{}{"start": dateStr}},
		},
		"children": ContentToBlocks(template),
	}

	var created struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := s.doJSON(ctx, "POST", "/pages", payload, &created); err != nil {
		s.logger.Error("日報の作成に失敗しました", zap.String("date", dateStr), zap.Error(err))
		return ReportResult{Date: dateStr, Template: template, Error: err.Error(), Details: errorDetails(err)}, nil
	}

	s.logger.Info("日報を作成しました", zap.String("id", created.ID), zap.String("date", dateStr))
	return ReportResult{RecordID: created.ID, URL: created.URL, Date: dateStr, Template: template}, nil
}
