package workflow

import (
	"fmt"
	"strings"

	"ideaforge-be/internal/entities"
)

// maxSearchContext bounds how much search text reaches the model, in characters
const maxSearchContext = 2000

func buildPrompt(niche, searchText string) string {
	var b strings.Builder

	b.WriteString("You are a professional startup ideation assistant with expertise in market analysis and business development.\n\n")
	fmt.Fprintf(&b, "Given the following niche: %q\n", niche)

	if searchText != "" {
		b.WriteString("\nRecent market research and trends:\n")
		b.WriteString(truncate(searchText, maxSearchContext))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `
Generate EXACTLY %d innovative and viable startup ideas for this niche.

For each idea, provide:
- A compelling startup name
- A one-paragraph pitch that clearly explains the value proposition
- The specific target audience
- A realistic revenue model

Focus on:
- Market gaps and opportunities
- Scalable business models
- Current technology trends
- Practical implementation

Ensure each idea is unique, feasible, and addresses real market needs.`, entities.IdeasPerBatch)

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
