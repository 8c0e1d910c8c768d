package mcp

import (
	"fmt"
	"strings"

	"github.com/txtsearch/txtsearch/internal/search"
	"github.com/txtsearch/txtsearch/internal/store"
)

// FormatSearchResults formats a search response as markdown.
func FormatSearchResults(resp *search.Response) string {
	if len(resp.Hits) == 0 {
		return fmt.Sprintf("No results found for \"%s\" (%s strategy)", resp.Query, resp.Strategy)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Search Results for \"%s\"\n\n", resp.Query))
	sb.WriteString(fmt.Sprintf("Strategy: `%s`\n\n", resp.Strategy))
	sb.WriteString(fmt.Sprintf("Found %d result", len(resp.Hits)))
	if len(resp.Hits) != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\n\n")

	for i, hit := range resp.Hits {
		formatHit(&sb, i+1, hit)
	}

	return sb.String()
}

func formatHit(sb *strings.Builder, rank int, hit search.Hit) {
	loc := fmt.Sprintf("%s:%d", hit.Path, hit.StartLine)
	if hit.EndLine > hit.StartLine {
		loc = fmt.Sprintf("%s-%d", loc, hit.EndLine)
	}
	sb.WriteString(fmt.Sprintf("### %d. %s (score: %.3f)\n\n", rank, loc, hit.Score))

	snippet := hit.Snippet
	if len(hit.Context) > 0 {
		snippet = strings.Join(hit.Context, "\n")
	}
	sb.WriteString("```\n")
	sb.WriteString(strings.TrimRight(snippet, "\n"))
	sb.WriteString("\n```\n\n")
}

// FormatIndexStatus formats index metadata as markdown.
func FormatIndexStatus(meta *store.IndexMetadata) string {
	var sb strings.Builder
	sb.WriteString("## Index Status\n\n")
	sb.WriteString(fmt.Sprintf("- **Build:** %s\n", meta.BuildID))
	sb.WriteString(fmt.Sprintf("- **Root:** %s\n", meta.Root))
	sb.WriteString(fmt.Sprintf("- **Created:** %s\n", meta.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("- **Files:** %d\n", meta.FileCount))
	sb.WriteString(fmt.Sprintf("- **Chunks:** %d\n", meta.ChunkCount))
	sb.WriteString(fmt.Sprintf("- **Skipped:** %d\n", meta.SkippedCount))
	sb.WriteString(fmt.Sprintf("- **Strategies:** %s\n", strings.Join(meta.Strategies, ", ")))
	if meta.EmbedModel != "" {
		sb.WriteString(fmt.Sprintf("- **Embedding model:** %s\n", meta.EmbedModel))
	}
	return sb.String()
}
