// Package chunk splits file contents into overlapping retrievable units.
//
// The splitter works recursively: it tries to break text on paragraph
// boundaries first, then lines, then words, then individual characters,
// merging adjacent pieces into chunks near the configured size with a
// configured overlap. Splitting is a pure function of its input, so the
// same content always produces the same chunks.
package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Defaults for chunk sizing.
const (
	DefaultSize    = 512
	DefaultOverlap = 50
)

// defaultSeparators is the boundary preference order. The empty string
// means split between characters as a last resort.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Chunk is one retrievable unit of a file.
type Chunk struct {
	ID          string // Derived from file path, content hash, and index
	FilePath    string // Relative to the search root
	Index       int    // Position within the file, 0-based
	Content     string
	ContentHash string // SHA-256 of Content, hex
	StartOffset int    // Byte offset of Content within the file
	EndOffset   int    // Byte offset one past the end
	StartLine   int    // 1-indexed
	EndLine     int    // Inclusive
}

// Splitter produces chunks from file contents.
type Splitter struct {
	size       int
	overlap    int
	separators []string
}

// NewSplitter creates a Splitter. Non-positive size or negative overlap
// fall back to the defaults.
func NewSplitter(size, overlap int) *Splitter {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultOverlap
		if overlap >= size {
			overlap = size / 4
		}
	}
	return &Splitter{size: size, overlap: overlap, separators: defaultSeparators}
}

// HashContent returns the hex SHA-256 of content.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// ID derives a stable chunk identifier from the file path, the file
// content hash, and the chunk index.
func ID(filePath, fileHash string, index int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%d", filePath, fileHash, index)))
	return hex.EncodeToString(sum[:])[:16]
}

// Split breaks content into chunks with spans and line numbers filled in.
// Empty or whitespace-only content yields no chunks.
func (s *Splitter) Split(filePath string, content []byte) []Chunk {
	text := string(content)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	fileHash := HashContent(content)
	spans := s.splitSpan(text, span{0, len(text)}, s.separators)

	lines := newLineIndex(text)
	chunks := make([]Chunk, 0, len(spans))
	for _, sp := range spans {
		sp = trimSpan(text, sp)
		if sp.start >= sp.end {
			continue
		}
		body := text[sp.start:sp.end]
		idx := len(chunks)
		chunks = append(chunks, Chunk{
			ID:          ID(filePath, fileHash, idx),
			FilePath:    filePath,
			Index:       idx,
			Content:     body,
			ContentHash: HashContent([]byte(body)),
			StartOffset: sp.start,
			EndOffset:   sp.end,
			StartLine:   lines.lineAt(sp.start),
			EndLine:     lines.lineAt(sp.end - 1),
		})
	}
	return chunks
}

type span struct {
	start, end int
}

func (s *Splitter) splitSpan(text string, sp span, seps []string) []span {
	if sp.end-sp.start <= s.size {
		return []span{sp}
	}

	sep, rest := pickSeparator(text[sp.start:sp.end], seps)
	pieces := splitBySeparator(text, sp, sep)

	var out []span
	var window []span

	windowLen := func() int {
		if len(window) == 0 {
			return 0
		}
		return window[len(window)-1].end - window[0].start
	}
	flush := func() {
		if len(window) == 0 {
			return
		}
		merged := span{window[0].start, window[len(window)-1].end}
		// Drop a tail chunk that adds nothing beyond the previous one.
		if len(out) > 0 && merged.start >= out[len(out)-1].start && merged.end <= out[len(out)-1].end {
			return
		}
		out = append(out, merged)
	}

	for _, p := range pieces {
		if p.end-p.start > s.size {
			flush()
			window = nil
			out = append(out, s.splitSpan(text, p, rest)...)
			continue
		}
		if len(window) > 0 && windowLen()+(p.end-p.start) > s.size {
			flush()
			// Retain a tail of pieces as overlap for the next chunk.
			for len(window) > 0 && windowLen() > s.overlap {
				window = window[1:]
			}
		}
		window = append(window, p)
	}
	flush()
	return out
}

// pickSeparator returns the first separator present in segment and the
// separators remaining after it for recursion.
func pickSeparator(segment string, seps []string) (string, []string) {
	for i, cand := range seps {
		if cand == "" {
			return "", nil
		}
		if strings.Contains(segment, cand) {
			return cand, seps[i+1:]
		}
	}
	return "", nil
}

// splitBySeparator splits a span into piece spans. The separator stays
// attached to the preceding piece so pieces tile the span exactly. An
// empty separator splits between characters.
func splitBySeparator(text string, sp span, sep string) []span {
	var pieces []span
	if sep == "" {
		for i := sp.start; i < sp.end; {
			_, w := utf8.DecodeRuneInString(text[i:])
			if w == 0 {
				w = 1
			}
			pieces = append(pieces, span{i, i + w})
			i += w
		}
		return pieces
	}

	start := sp.start
	for start < sp.end {
		idx := strings.Index(text[start:sp.end], sep)
		if idx < 0 {
			pieces = append(pieces, span{start, sp.end})
			break
		}
		end := start + idx + len(sep)
		pieces = append(pieces, span{start, end})
		start = end
	}
	return pieces
}

func trimSpan(text string, sp span) span {
	for sp.start < sp.end {
		r, w := utf8.DecodeRuneInString(text[sp.start:sp.end])
		if !unicode.IsSpace(r) {
			break
		}
		sp.start += w
	}
	for sp.end > sp.start {
		r, w := utf8.DecodeLastRuneInString(text[sp.start:sp.end])
		if !unicode.IsSpace(r) {
			break
		}
		sp.end -= w
	}
	return sp
}

// lineIndex maps byte offsets to 1-indexed line numbers.
type lineIndex struct {
	starts []int // byte offset where each line begins
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (l *lineIndex) lineAt(offset int) int {
	lo, hi := 0, len(l.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
