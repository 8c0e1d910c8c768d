//go:build ignore

// Generates a synthetic directory tree for exercising index builds.
// Usage: go run scripts/generate-corpus.go -files 500 -output testdata/corpus
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numFiles  = flag.Int("files", 500, "Number of files to generate")
	outputDir = flag.String("output", "testdata/corpus", "Output directory")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var topics = []string{
	"deployment", "billing", "onboarding", "retention", "migration",
	"monitoring", "incident response", "capacity planning", "backups",
	"access control", "release process", "support rotation", "metrics",
	"data retention", "vendor review", "api versioning", "caching",
}

var sentences = []string{
	"The %s process runs every night and writes a summary to the shared drive.",
	"Last quarter we changed how %s is handled across all regions.",
	"Anyone touching %s should read the runbook first and file a ticket.",
	"There is a known issue where %s fails silently on the first attempt.",
	"The team agreed to revisit %s once the new hardware arrives.",
	"Customers reported confusion around %s after the January update.",
	"We keep the canonical notes on %s in this directory, not the wiki.",
	"The checklist for %s has eleven steps and takes about an hour.",
	"Escalations related to %s go to the on-call rotation directly.",
	"Budget for %s was approved but the rollout is paused until review.",
}

var mdHeader = `# %s

Notes collected by the team. Edit freely, this file is indexed nightly.

## Summary

%s

## Open items

- %s
- %s
`

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	subdirs := []string{"notes", "docs", "archive", "archive/2025"}
	for _, sub := range subdirs {
		if err := os.MkdirAll(filepath.Join(*outputDir, sub), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "error creating %s: %v\n", sub, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Generating %d files in %s...\n", *numFiles, *outputDir)

	txtFiles := *numFiles * 60 / 100
	mdFiles := *numFiles * 30 / 100
	jsonFiles := *numFiles - txtFiles - mdFiles

	generated := 0
	for i := 0; i < txtFiles; i++ {
		if err := writeTextFile(rng, i); err != nil {
			fmt.Fprintf(os.Stderr, "error writing text file %d: %v\n", i, err)
			continue
		}
		generated++
	}
	for i := 0; i < mdFiles; i++ {
		if err := writeMarkdownFile(rng, i); err != nil {
			fmt.Fprintf(os.Stderr, "error writing markdown file %d: %v\n", i, err)
			continue
		}
		generated++
	}
	for i := 0; i < jsonFiles; i++ {
		if err := writeJSONFile(rng, i); err != nil {
			fmt.Fprintf(os.Stderr, "error writing json file %d: %v\n", i, err)
			continue
		}
		generated++
	}

	fmt.Printf("Generated %d files.\n", generated)
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}

func paragraph(rng *rand.Rand, topic string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, pick(rng, sentences), topic)
		b.WriteString("\n")
	}
	return b.String()
}

func writeTextFile(rng *rand.Rand, index int) error {
	topic := pick(rng, topics)
	dir := "notes"
	if index%3 == 0 {
		dir = "archive/2025"
	}
	name := fmt.Sprintf("%s-%d.txt", strings.ReplaceAll(topic, " ", "-"), index)
	content := paragraph(rng, topic, 4+rng.Intn(20))
	return os.WriteFile(filepath.Join(*outputDir, dir, name), []byte(content), 0o644)
}

func writeMarkdownFile(rng *rand.Rand, index int) error {
	topic := pick(rng, topics)
	title := strings.ToUpper(topic[:1]) + topic[1:]
	content := fmt.Sprintf(mdHeader,
		title,
		paragraph(rng, topic, 3),
		fmt.Sprintf(pick(rng, sentences), topic),
		fmt.Sprintf(pick(rng, sentences), pick(rng, topics)),
	)
	name := fmt.Sprintf("%s-%d.md", strings.ReplaceAll(topic, " ", "-"), index)
	return os.WriteFile(filepath.Join(*outputDir, "docs", name), []byte(content), 0o644)
}

func writeJSONFile(rng *rand.Rand, index int) error {
	topic := pick(rng, topics)
	content := fmt.Sprintf(`{
  "topic": %q,
  "owner": "team-%d",
  "reviewed": %t,
  "notes": %q
}
`, topic, rng.Intn(8), rng.Intn(2) == 0, fmt.Sprintf(pick(rng, sentences), topic))
	name := fmt.Sprintf("record-%d.json", index)
	return os.WriteFile(filepath.Join(*outputDir, "archive", name), []byte(content), 0o644)
}
