package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/neurodyn/internal/analysis"
	"github.com/san-kum/neurodyn/internal/dynamo"
	"github.com/san-kum/neurodyn/internal/neuron"
)

// PhasePlane renders the (V, w) plane: both nullclines as dotted curves,
// an optional trajectory, and the fixed point as a stamped marker.
func PhasePlane(cell *neuron.Cell, stim float64, traj *dynamo.Trajectory, fp *analysis.FixedPoint, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	vMin, vMax := -85.0, 45.0
	wMin, wMax := -0.05, 1.0

	// Widen to the trajectory's reach so spikes stay on canvas.
	if traj != nil {
		for _, s := range traj.States {
			vMin = math.Min(vMin, s[neuron.IdxV])
			vMax = math.Max(vMax, s[neuron.IdxV])
			wMin = math.Min(wMin, s[neuron.IdxW])
			wMax = math.Max(wMax, s[neuron.IdxW])
		}
	}

	canvas := NewCanvas(width, height)
	px := float64(width*2 - 1)
	py := float64(height*4 - 1)

	toX := func(v float64) int { return int((v - vMin) / (vMax - vMin) * px) }
	toY := func(w float64) int { return int((wMax - w) / (wMax - wMin) * py) }

	// Nullclines, sampled densely in V. The V-nullcline is singular at
	// E_K; that voltage sits far outside the window but guard anyway.
	samples := width * 2
	for i := 0; i <= samples; i++ {
		v := vMin + (vMax-vMin)*float64(i)/float64(samples)

		canvas.Set(toX(v), toY(cell.WNullclineW(v)))

		if math.Abs(v-cell.P.EK) < 1e-6 {
			continue
		}
		wv := cell.VNullclineW(v, stim)
		if wv >= wMin && wv <= wMax {
			canvas.Set(toX(v), toY(wv))
		}
	}

	if traj != nil {
		for _, s := range traj.States {
			canvas.Set(toX(s[neuron.IdxV]), toY(s[neuron.IdxW]))
		}
	}

	if fp != nil {
		marker := '+'
		if !fp.Converged {
			marker = '?'
		}
		canvas.Mark(toX(fp.V)/2, toY(fp.W)/4, marker)
	}

	var sb strings.Builder
	sb.WriteString(canvas.String())
	sb.WriteString(fmt.Sprintf("V: [%.0f, %.0f] mV   w: [%.2f, %.2f]   I=%.1f\n", vMin, vMax, wMin, wMax, stim))
	if fp != nil {
		state := "converged"
		if !fp.Converged {
			state = "low confidence"
		}
		sb.WriteString(fmt.Sprintf("fixed point (+): V*=%.3f w*=%.4f residual=%.2e (%s)\n", fp.V, fp.W, fp.Residual, state))
	}
	return sb.String()
}
