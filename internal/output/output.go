// Package output renders search results, build reports, and index
// status for the CLI in text or JSON form.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/search"
	"github.com/txtsearch/txtsearch/internal/store"
)

// Format selects the rendering mode.
type Format string

const (
	// FormatText renders human-readable output, styled when the
	// destination is a terminal.
	FormatText Format = "text"
	// FormatJSON renders machine-readable JSON.
	FormatJSON Format = "json"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text or json)", s)
	}
}

// Renderer writes formatted output to a single destination.
type Renderer struct {
	out    io.Writer
	format Format
	styles Styles
}

// NewRenderer creates a renderer for the given destination. Color is
// enabled only for terminal destinations without NO_COLOR set.
func NewRenderer(out io.Writer, format Format) *Renderer {
	return &Renderer{
		out:    out,
		format: format,
		styles: GetStyles(!useColor(out)),
	}
}

func useColor(w io.Writer) bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SearchResponse renders a search result set.
func (r *Renderer) SearchResponse(resp *search.Response) error {
	if r.format == FormatJSON {
		return r.writeJSON(resp)
	}

	if len(resp.Hits) == 0 {
		fmt.Fprintln(r.out, r.styles.Dim.Render(fmt.Sprintf("No results for %q (%s)", resp.Query, resp.Strategy)))
		return nil
	}

	for i, hit := range resp.Hits {
		loc := fmt.Sprintf("%s:%d", hit.Path, hit.StartLine)
		if hit.EndLine > hit.StartLine {
			loc = fmt.Sprintf("%s-%d", loc, hit.EndLine)
		}
		fmt.Fprintf(r.out, "%s %s %s\n",
			r.styles.Header.Render(loc),
			r.styles.Score.Render(fmt.Sprintf("%.3f", hit.Score)),
			r.styles.Dim.Render(hit.Strategy))
		r.renderSnippet(hit)
		if i < len(resp.Hits)-1 {
			fmt.Fprintln(r.out)
		}
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.styles.Dim.Render(fmt.Sprintf("%d result(s) in %s", len(resp.Hits), resp.Duration.Round(time.Millisecond))))
	return nil
}

func (r *Renderer) renderSnippet(hit search.Hit) {
	if len(hit.Context) > 0 {
		for _, line := range hit.Context {
			fmt.Fprintf(r.out, "  %s\n", line)
		}
		return
	}
	for _, line := range strings.Split(strings.TrimRight(hit.Snippet, "\n"), "\n") {
		fmt.Fprintf(r.out, "  %s\n", line)
	}
}

// BuildStats renders the report of a completed index build.
func (r *Renderer) BuildStats(stats *index.BuildStats) error {
	if r.format == FormatJSON {
		return r.writeJSON(buildReport{
			BuildID:    stats.BuildID,
			Files:      stats.Files,
			Chunks:     stats.Chunks,
			Skipped:    stats.Skipped,
			Strategies: stats.Strategies,
			Duration:   stats.Duration.String(),
		})
	}

	fmt.Fprintln(r.out, r.styles.Success.Render("Index built"))
	fmt.Fprintf(r.out, "  %s %s\n", r.styles.Label.Render("build:"), stats.BuildID)
	fmt.Fprintf(r.out, "  %s %d files, %d chunks (%d skipped)\n",
		r.styles.Label.Render("indexed:"), stats.Files, stats.Chunks, stats.Skipped)
	fmt.Fprintf(r.out, "  %s %s\n", r.styles.Label.Render("strategies:"), strings.Join(stats.Strategies, ", "))
	fmt.Fprintf(r.out, "  %s %s\n", r.styles.Label.Render("duration:"), stats.Duration.Round(time.Millisecond))
	return nil
}

// Status renders the active build's metadata.
func (r *Renderer) Status(meta *store.IndexMetadata) error {
	if r.format == FormatJSON {
		return r.writeJSON(meta)
	}

	fmt.Fprintf(r.out, "%s %s\n", r.styles.Label.Render("build:"), meta.BuildID)
	fmt.Fprintf(r.out, "%s %s\n", r.styles.Label.Render("root:"), meta.Root)
	fmt.Fprintf(r.out, "%s %s\n", r.styles.Label.Render("created:"), meta.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(r.out, "%s %d files, %d chunks (%d skipped)\n",
		r.styles.Label.Render("indexed:"), meta.FileCount, meta.ChunkCount, meta.SkippedCount)
	fmt.Fprintf(r.out, "%s %s\n", r.styles.Label.Render("strategies:"), strings.Join(meta.Strategies, ", "))
	if meta.EmbedModel != "" {
		fmt.Fprintf(r.out, "%s %s\n", r.styles.Label.Render("embed model:"), meta.EmbedModel)
	}
	return nil
}

// Error renders a failure message to the destination.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.out, r.styles.Error.Render("error: ")+err.Error())
}

func (r *Renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type buildReport struct {
	BuildID    string   `json:"build_id"`
	Files      int      `json:"files"`
	Chunks     int      `json:"chunks"`
	Skipped    int      `json:"skipped"`
	Strategies []string `json:"strategies"`
	Duration   string   `json:"duration"`
}
