package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/neurodyn/internal/analysis"
	"github.com/san-kum/neurodyn/internal/dynamo"
	"github.com/san-kum/neurodyn/internal/neuron"
)

func TestDownsample(t *testing.T) {
	data := make([]float64, 1000)
	for i := range data {
		data[i] = float64(i)
	}

	out := downsample(data, 100)
	if len(out) != 100 {
		t.Fatalf("expected 100 points, got %d", len(out))
	}
	if out[0] != 0 {
		t.Errorf("expected first point preserved, got %f", out[0])
	}

	short := []float64{1, 2, 3}
	if got := downsample(short, 100); len(got) != 3 {
		t.Errorf("expected short series untouched, got %d points", len(got))
	}
}

func TestTracePlot(t *testing.T) {
	traj := &dynamo.Trajectory{
		Times:  []float64{0, 1, 2, 3},
		States: []dynamo.State{{-70, 0}, {-40, 0.1}, {10, 0.3}, {-60, 0.1}},
	}

	out := TracePlot(traj, 80, 10)
	if out == "" {
		t.Fatal("expected non-empty plot")
	}

	if TracePlot(nil, 80, 10) != "" {
		t.Error("expected empty plot for nil trajectory")
	}
}

func TestFICurveHandlesNaN(t *testing.T) {
	records := []analysis.Record{
		{Stimulus: 30, Frequency: 0},
		{Stimulus: 31, Frequency: math.NaN()},
		{Stimulus: 32, Frequency: 25},
	}

	out := FICurve(records, 6)
	if out == "" {
		t.Fatal("expected non-empty curve")
	}
	if strings.Contains(out, "NaN") {
		t.Error("NaN leaked into the rendering")
	}

	if FICurve(nil, 6) != "" {
		t.Error("expected empty curve for no records")
	}
}

func TestBifurcationDiagram(t *testing.T) {
	records := []analysis.Record{
		{Stimulus: 30, Point: analysis.FixedPoint{V: -55}, VMax: math.NaN(), VMin: math.NaN()},
		{Stimulus: 31, Point: analysis.FixedPoint{V: -54}, VMax: 25, VMin: -60},
	}

	out := BifurcationDiagram(records, 6)
	if out == "" {
		t.Fatal("expected non-empty diagram")
	}
	if strings.Contains(out, "NaN") {
		t.Error("NaN leaked into the rendering")
	}
}

func TestPhasePlane(t *testing.T) {
	cell := neuron.NewCell(neuron.Class2Parameters())
	fp := &analysis.FixedPoint{V: -55, W: 0.01, Converged: true}

	out := PhasePlane(cell, 40, nil, fp, 40, 12)
	if out == "" {
		t.Fatal("expected non-empty phase plane")
	}
	if !strings.Contains(out, "fixed point") {
		t.Error("expected fixed point legend")
	}

	if PhasePlane(cell, 40, nil, nil, 0, 0) != "" {
		t.Error("expected empty output for degenerate size")
	}
}
