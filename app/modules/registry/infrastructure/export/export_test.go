package export

import (
	"testing"
)

func TestHistogramBars(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 5, 5, 10}

	bars := histogramBars(values)
	if len(bars) != histogramBins {
		t.Fatalf("bars = %d, want %d", len(bars), histogramBins)
	}

	var total float64
	for _, bar := range bars {
		total += bar.Value
	}
	if total != float64(len(values)) {
		t.Errorf("binned count = %v, want %d", total, len(values))
	}

	// The max value lands in the last bin.
	if bars[len(bars)-1].Value != 1 {
		t.Errorf("last bin = %v, want 1", bars[len(bars)-1].Value)
	}
}

func TestHistogramBarsSingleValue(t *testing.T) {
	bars := histogramBars([]float64{2.5, 2.5, 2.5})
	if len(bars) != 1 {
		t.Fatalf("bars = %d, want 1 for degenerate distribution", len(bars))
	}
	if bars[0].Value != 3 {
		t.Errorf("bar value = %v, want 3", bars[0].Value)
	}
}
