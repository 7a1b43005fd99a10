package summary

import (
	"strings"

	"github.com/vietddude/glossary/internal/core/domain"
)

const instructions = "I need you to summarize the following text, but with the following notes; " +
	"output only the summary, try to keep the summary 5 sentences, " +
	"if the summary is of a geographic location (like a town, government, or thing) list its location, " +
	"if the summary is of a magic item list its rarity and what type it is. " +
	"The text is lore from a fantasy tabletop campaign setting."

// Indent prefixes every generated summary.
const Indent = "\t"

// ExtractText concatenates the first text run of every paragraph whose first
// element is a text run. Other structural elements are skipped.
func ExtractText(body *domain.Body) string {
	if body == nil {
		return ""
	}

	var sb strings.Builder
	for _, el := range body.Content {
		p := el.Paragraph
		if p == nil || len(p.Elements) == 0 {
			continue
		}
		run := p.Elements[0].TextRun
		if run == nil {
			continue
		}
		sb.WriteString(run.Content)
	}
	return sb.String()
}

// BuildPrompt embeds text verbatim after the summarization instructions.
func BuildPrompt(text string) string {
	return instructions + "\n\n" + text
}
