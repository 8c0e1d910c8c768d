package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyContent(t *testing.T) {
	s := NewSplitter(512, 50)
	assert.Nil(t, s.Split("a.txt", nil))
	assert.Nil(t, s.Split("a.txt", []byte("   \n\n  ")))
}

func TestSplitSmallFileSingleChunk(t *testing.T) {
	s := NewSplitter(512, 50)
	content := []byte("hello world\nsecond line\n")

	chunks := s.Split("a.txt", content)
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.Equal(t, "hello world\nsecond line", c.Content)
	assert.Equal(t, 0, c.Index)
	assert.Equal(t, "a.txt", c.FilePath)
	assert.Equal(t, 1, c.StartLine)
	assert.Equal(t, 2, c.EndLine)
	assert.Equal(t, 0, c.StartOffset)
	assert.Len(t, c.ID, 16)
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	para1 := strings.Repeat("alpha ", 20) // ~120 bytes
	para2 := strings.Repeat("beta ", 20)
	content := []byte(para1 + "\n\n" + para2)

	s := NewSplitter(140, 20)
	chunks := s.Split("doc.md", content)
	require.GreaterOrEqual(t, len(chunks), 2)

	assert.True(t, strings.HasPrefix(chunks[0].Content, "alpha"))
	for _, c := range chunks {
		assert.NotEmpty(t, c.Content)
	}
}

func TestSplitSpansMatchContent(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString(strings.Repeat("word ", 10))
		b.WriteString("\n")
	}
	content := []byte(b.String())

	s := NewSplitter(200, 40)
	chunks := s.Split("big.txt", content)
	require.Greater(t, len(chunks), 1)

	text := string(content)
	for _, c := range chunks {
		assert.Equal(t, text[c.StartOffset:c.EndOffset], c.Content,
			"chunk %d span mismatch", c.Index)
		assert.LessOrEqual(t, c.StartLine, c.EndLine)
		assert.Equal(t, c.StartLine, 1+strings.Count(text[:c.StartOffset], "\n"))
	}
}

func TestSplitChunksOverlap(t *testing.T) {
	content := []byte(strings.Repeat("token ", 200))

	s := NewSplitter(120, 30)
	chunks := s.Split("overlap.txt", content)
	require.Greater(t, len(chunks), 2)

	for i := 1; i < len(chunks); i++ {
		assert.Less(t, chunks[i].StartOffset, chunks[i-1].EndOffset,
			"chunk %d should overlap its predecessor", i)
		assert.Greater(t, chunks[i].EndOffset, chunks[i-1].EndOffset)
	}
}

func TestSplitDeterministic(t *testing.T) {
	content := []byte(strings.Repeat("the quick brown fox\njumps over\n\n", 50))

	s := NewSplitter(256, 50)
	first := s.Split("same.txt", content)
	second := s.Split("same.txt", content)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
}

func TestSplitLongUnbrokenLine(t *testing.T) {
	content := []byte(strings.Repeat("x", 1500))

	s := NewSplitter(512, 50)
	chunks := s.Split("blob.txt", content)
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Content), 512)
		assert.Equal(t, 1, c.StartLine)
	}
	assert.Equal(t, 1500, chunks[len(chunks)-1].EndOffset)
}

func TestIDStableAndDistinct(t *testing.T) {
	hash := HashContent([]byte("content"))

	assert.Equal(t, ID("a.txt", hash, 0), ID("a.txt", hash, 0))
	assert.NotEqual(t, ID("a.txt", hash, 0), ID("a.txt", hash, 1))
	assert.NotEqual(t, ID("a.txt", hash, 0), ID("b.txt", hash, 0))
	assert.NotEqual(t, ID("a.txt", hash, 0), ID("a.txt", HashContent([]byte("other")), 0))
}

func TestHashContent(t *testing.T) {
	assert.Len(t, HashContent([]byte("abc")), 64)
	assert.Equal(t, HashContent([]byte("abc")), HashContent([]byte("abc")))
	assert.NotEqual(t, HashContent([]byte("abc")), HashContent([]byte("abd")))
}
