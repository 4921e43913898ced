package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentToBlocks(t *testing.T) {
	content := "## 見出し\n### 小見出し\n- 箇条書き\n1. 番号付き\n本文\n"

	blocks := ContentToBlocks(content)
	require.Len(t, blocks, 6)

	assert.Equal(t, "heading_2", blocks[0]["type"])
	assert.Equal(t, "heading_3", blocks[1]["type"])
	assert.Equal(t, "bulleted_list_item", blocks[2]["type"])
	assert.Equal(t, "numbered_list_item", blocks[3]["type"])
	assert.Equal(t, "paragraph", blocks[4]["type"])
	// trailing newline produces an empty paragraph
	assert.Equal(t, "paragraph", blocks[5]["type"])

	heading := blocks[0]["heading_2"].(map[string]interface{})
	richText := heading["rich_text"].([]map[string]interface{})
	require.Len(t, richText, 1)
	text := richText[0]["text"].(map[string]interface{})
	assert.Equal(t, "見出し", text["content"])

	numbered := blocks[3]["numbered_list_item"].(map[string]interface{})
	richText = numbered["rich_text"].([]map[string]interface{})
	text = richText[0]["text"].(map[string]interface{})
	assert.Equal(t, "番号付き", text["content"])
}

func TestIsNumberedItem(t *testing.T) {
	assert.True(t, isNumberedItem("1. はじめに"))
	assert.True(t, isNumberedItem("10. まとめ"))
	assert.False(t, isNumberedItem("1."))
	assert.False(t, isNumberedItem("10000. 遠すぎる区切り"))
	assert.False(t, isNumberedItem("一. 漢数字"))
	assert.False(t, isNumberedItem("普通の文です。"))
}

func TestBlocksToText(t *testing.T) {
	richText := func(text string) []interface{} {
		return []interface{}{map[string]interface{}{"plain_text": text}}
	}

	blocks := []map[string]interface{}{
		{"type": "heading_2", "heading_2": map[string]interface{}{"rich_text": richText("見出し")}},
		{"type": "paragraph", "paragraph": map[string]interface{}{"rich_text": richText("本文")}},
		{"type": "bulleted_list_item", "bulleted_list_item": map[string]interface{}{"rich_text": richText("項目")}},
		{"type": "numbered_list_item", "numbered_list_item": map[string]interface{}{"rich_text": richText("手順")}},
		{"type": "to_do", "to_do": map[string]interface{}{"rich_text": richText("完了済み"), "checked": true}},
		{"type": "to_do", "to_do": map[string]interface{}{"rich_text": richText("未完了"), "checked": false}},
		{"type": "paragraph", "paragraph": map[string]interface{}{"rich_text": []interface{}{}}},
	}

	text := blocksToText(blocks)
	assert.Equal(t, "## 見出し\n本文\n- 項目\n* 手順\n- [x] 完了済み\n- [ ] 未完了", text)
}

func TestConvertProperties(t *testing.T) {
	converted := convertProperties([]Property{
		{Name: "名前", Value: "買い物メモ"},
		{Name: "日付", Value: "2026-08-28"},
		{Name: "完了", Value: true},
		{Name: "数量", Value: 3},
		{Name: "備考", Value: "午後に"},
	})

	title := converted["名前"].(map[string]interface{})
	require.Contains(t, title, "title")

	date := converted["日付"].(map[string]interface{})["date"].(map[string]interface{})
	assert.Equal(t, "2026-08-28", date["start"])

	checkbox := converted["完了"].(map[string]interface{})
	assert.Equal(t, true, checkbox["checkbox"])

	number := converted["数量"].(map[string]interface{})
	assert.Equal(t, 3, number["number"])

	memo := converted["備考"].(map[string]interface{})
	require.Contains(t, memo, "rich_text")
}

func TestConvertPropertiesFirstIsAlwaysTitle(t *testing.T) {
	// even a date-shaped first value becomes the title
	converted := convertProperties([]Property{{Name: "日付", Value: "2026-08-28"}})
	require.Contains(t, converted["日付"].(map[string]interface{}), "title")
}

func TestIsDateString(t *testing.T) {
	assert.True(t, isDateString("2026-08-28"))
	assert.False(t, isDateString("2026/08/28"))
	assert.False(t, isDateString("来週の金曜"))
	assert.False(t, isDateString("2026-08-28T09:00:00Z"))
}

func TestReportTemplate(t *testing.T) {
	template := reportTemplate("2026-08-28", "金")
	assert.Contains(t, template, "## 日報 2026-08-28（金）")
	assert.Contains(t, template, "### 今日のタスク")
	assert.Contains(t, template, "### 完了したタスク")
	assert.Contains(t, template, "### 明日の予定")
	assert.Contains(t, template, "### メモ・気づき")
}
