package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSearchCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(SearchesTotal.WithLabelValues("lexical", "ok"))
	ObserveSearch("lexical", 50*time.Millisecond, 3, nil)
	after := testutil.ToFloat64(SearchesTotal.WithLabelValues("lexical", "ok"))
	assert.Equal(t, before+1, after)

	beforeErr := testutil.ToFloat64(SearchesTotal.WithLabelValues("semantic", "error"))
	ObserveSearch("semantic", time.Second, 0, errors.New("backend down"))
	afterErr := testutil.ToFloat64(SearchesTotal.WithLabelValues("semantic", "error"))
	assert.Equal(t, beforeErr+1, afterErr)
}

func TestObserveBuildSetsGauges(t *testing.T) {
	ObserveBuild(2*time.Second, 42, 310, nil)

	assert.Equal(t, float64(42), testutil.ToFloat64(IndexedFiles))
	assert.Equal(t, float64(310), testutil.ToFloat64(IndexedChunks))

	// A failed build leaves the gauges untouched.
	ObserveBuild(time.Second, 0, 0, errors.New("boom"))
	assert.Equal(t, float64(42), testutil.ToFloat64(IndexedFiles))
}
