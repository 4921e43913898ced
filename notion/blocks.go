package notion

import (
	"fmt"
	"strings"
	"unicode"
)

// Block is one Notion block object in API wire shape.
type Block map[string]interface{}

// buildRichText wraps plain text in the rich-text array the API expects.
func buildRichText(text string) []map[string]interface{} {
	return []map[string]interface{}{
		{"type": "text", "text": map[string]interface{}{"content": text}},
	}
}

// textBlock builds a block of the given type around one rich-text run.
func textBlock(blockType, text string) Block {
	content := map[string]interface{}{"rich_text": buildRichText(text)}
	if text == "" {
		content["rich_text"] = []map[string]interface{}{}
	}
	return Block{
		"object":  "block",
		"type":    blockType,
		blockType: content,
	}
}

// ContentToBlocks converts text in a small Markdown subset into Notion blocks:
//
//	"## "   -> heading_2
//	"### "  -> heading_3
//	"- "    -> bulleted_list_item
//	"1. "   -> numbered_list_item
//	rest    -> paragraph (blank lines become empty paragraphs)
func ContentToBlocks(content string) []Block {
	var blocks []Block

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		switch {
		case stripped == "":
			blocks = append(blocks, textBlock("paragraph", ""))
		case strings.HasPrefix(stripped, "### "):
			blocks = append(blocks, textBlock("heading_3", stripped[len("### "):]))
		case strings.HasPrefix(stripped, "## "):
			blocks = append(blocks, textBlock("heading_2", stripped[len("## "):]))
		case strings.HasPrefix(stripped, "- "):
			blocks = append(blocks, textBlock("bulleted_list_item", stripped[len("- "):]))
		case isNumberedItem(stripped):
			_, text, _ := strings.Cut(stripped, ". ")
			blocks = append(blocks, textBlock("numbered_list_item", text))
		default:
			blocks = append(blocks, textBlock("paragraph", stripped))
		}
	}
	return blocks
}

// isNumberedItem reports whether a line looks like "1. something".
func isNumberedItem(line string) bool {
	if len(line) <= 2 {
		return false
	}
	if !unicode.IsDigit(rune(line[0])) {
		return false
	}
	head := line
	if len(head) > 5 {
		head = head[:5]
	}
	return strings.Contains(head, ". ")
}

// plainText joins the plain_text runs of a decoded rich-text array.
func plainText(items []interface{}) string {
	var b strings.Builder
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if text, ok := m["plain_text"].(string); ok {
			b.WriteString(text)
		}
	}
	return b.String()
}

// blocksToText flattens decoded block objects back into the Markdown subset.
func blocksToText(blocks []map[string]interface{}) string {
	var parts []string
	for _, block := range blocks {
		blockType, _ := block["type"].(string)
		content, _ := block[blockType].(map[string]interface{})
		items, _ := content["rich_text"].([]interface{})
		text := plainText(items)

		switch blockType {
		case "heading_1", "heading_2", "heading_3":
			level := int(blockType[len(blockType)-1] - '0')
			parts = append(parts, fmt.Sprintf("%s %s", strings.Repeat("#", level), text))
		case "bulleted_list_item":
			parts = append(parts, "- "+text)
		case "numbered_list_item":
			parts = append(parts, "* "+text)
		case "to_do":
			marker := "[ ]"
			if checked, _ := content["checked"].(bool); checked {
				marker = "[x]"
			}
			parts = append(parts, fmt.Sprintf("- %s %s", marker, text))
		default:
			if text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n")
}
