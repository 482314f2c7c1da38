package orchestration

import (
	"fmt"
	"strings"

	"github.com/richinex/pagebrief/model"
)

var summaryPrompts = map[model.Tier]string{
	model.TierShort:    "Summarize in 5 bullet points. Then provide 2-5 short quotes/snippets from the page supporting the summary.",
	model.TierMedium:   "Structured summary with headings + bullets. Then 2-5 snippets.",
	model.TierDetailed: "Detailed structured summary (sections, key points, caveats). Then 2-5 snippets.",
}

const qaInstruction = "Answer using ONLY the page content. If not found, say so. Then provide 2-5 supporting snippets."

const chunkInstruction = "This is part %d of %d of a longer text. Summarize this part concisely and keep the key facts and figures."

func tierInstruction(tier model.Tier) string {
	if p, ok := summaryPrompts[tier]; ok {
		return p
	}
	return summaryPrompts[model.TierShort]
}

func contentLabel(source model.Source) string {
	if source == model.SourceSelection {
		return "Selected text:"
	}
	return "Page content:"
}

func summaryPrompt(tier model.Tier, source model.Source, text string) string {
	return fmt.Sprintf("%s\n\n%s\n%s", tierInstruction(tier), contentLabel(source), text)
}

func qaPrompt(query string, source model.Source, text string) string {
	return fmt.Sprintf("%s\n\nUser question:\n%s\n\n%s\n%s", qaInstruction, query, contentLabel(source), text)
}

func chunkPrompt(index, total int, source model.Source, text string) string {
	return fmt.Sprintf(chunkInstruction+"\n\n%s\n%s", index, total, contentLabel(source), text)
}

func combinePrompt(tier model.Tier, summaries []string) string {
	return fmt.Sprintf("%s\n\nPartial summaries:\n%s", tierInstruction(tier), strings.Join(summaries, "\n\n"))
}
