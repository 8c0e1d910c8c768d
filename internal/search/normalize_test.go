package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOrdering(t *testing.T) {
	hits := []Hit{
		{Path: "b.txt", StartLine: 5, Score: 0.5},
		{Path: "a.txt", StartLine: 9, Score: 0.5},
		{Path: "a.txt", StartLine: 2, Score: 0.5},
		{Path: "z.txt", StartLine: 1, Score: 0.9},
	}

	out := normalize(hits, 0)

	assert.Equal(t, "z.txt", out[0].Path)
	assert.Equal(t, "a.txt", out[1].Path)
	assert.Equal(t, 2, out[1].StartLine)
	assert.Equal(t, "a.txt", out[2].Path)
	assert.Equal(t, 9, out[2].StartLine)
	assert.Equal(t, "b.txt", out[3].Path)

	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}
}

func TestNormalizeClampsScores(t *testing.T) {
	out := normalize([]Hit{
		{Path: "a.txt", Score: 1.7},
		{Path: "b.txt", Score: -0.2},
	}, 0)

	assert.Equal(t, 1.0, out[0].Score)
	assert.Equal(t, 0.0, out[1].Score)
}

func TestNormalizeAppliesLimit(t *testing.T) {
	hits := make([]Hit, 25)
	for i := range hits {
		hits[i] = Hit{Path: "f.txt", StartLine: i + 1, Score: 0.5}
	}

	out := normalize(hits, 10)
	assert.Len(t, out, 10)
}
