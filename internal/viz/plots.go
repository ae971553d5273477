package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/neurodyn/internal/analysis"
	"github.com/san-kum/neurodyn/internal/dynamo"
	"github.com/san-kum/neurodyn/internal/neuron"
)

// TracePlot renders the voltage trace of a trajectory, downsampled to at
// most width points.
func TracePlot(traj *dynamo.Trajectory, width, height int) string {
	if traj == nil || traj.Len() == 0 {
		return ""
	}
	series := downsample(traj.Component(neuron.IdxV), width)
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Caption("V (mV) over time"),
	)
}

// FICurve renders firing frequency against the sweep's stimulus axis.
// Indeterminate rows plot as gaps filled with zero so the discontinuous
// onset stays visible.
func FICurve(records []analysis.Record, height int) string {
	if len(records) == 0 {
		return ""
	}
	freqs := make([]float64, len(records))
	for i, r := range records {
		if math.IsNaN(r.Frequency) {
			freqs[i] = 0
			continue
		}
		freqs[i] = r.Frequency
	}
	return asciigraph.Plot(freqs,
		asciigraph.Height(height),
		asciigraph.Caption("firing frequency (Hz) vs stimulus"),
	)
}

// BifurcationDiagram renders the equilibrium voltage branch together with
// the limit-cycle envelope (V max / V min).
func BifurcationDiagram(records []analysis.Record, height int) string {
	if len(records) == 0 {
		return ""
	}

	vstar := make([]float64, len(records))
	vmax := make([]float64, len(records))
	vmin := make([]float64, len(records))
	for i, r := range records {
		vstar[i] = r.Point.V
		if math.IsNaN(r.VMax) {
			// Resting rows: the envelope collapses onto the branch.
			vmax[i] = r.Point.V
			vmin[i] = r.Point.V
			continue
		}
		vmax[i] = r.VMax
		vmin[i] = r.VMin
	}

	return asciigraph.PlotMany([][]float64{vstar, vmax, vmin},
		asciigraph.Height(height),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption("V* branch with limit-cycle envelope vs stimulus"),
	)
}

func downsample(data []float64, maxPoints int) []float64 {
	if maxPoints <= 0 || len(data) <= maxPoints {
		return data
	}
	out := make([]float64, maxPoints)
	for i := range out {
		out[i] = data[i*len(data)/maxPoints]
	}
	return out
}
