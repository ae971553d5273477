package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/neurodyn/internal/analysis"
)

// SweepReport renders a sweep as a styled table with a transition summary.
func SweepReport(sweep analysis.Sweep) string {
	var sb strings.Builder

	sb.WriteString(HeaderStyle.Render("bifurcation sweep"))
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render(fmt.Sprintf("%10s %10s %10s %14s %10s %10s %10s",
		"I", "V*", "w*", "label", "f (Hz)", "Vmax", "Vmin")))
	sb.WriteString("\n")

	for _, r := range sweep.Records {
		line := fmt.Sprintf("%10.3f %10.3f %10.4f %14s %10s %10s %10s",
			r.Stimulus, r.Point.V, r.Point.W, r.Label,
			numCell(r.Frequency), numCell(r.VMax), numCell(r.VMin))
		sb.WriteString(styleFor(r.Label).Render(line))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if len(sweep.Transitions) == 0 {
		sb.WriteString(DimStyle.Render("no transitions detected"))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, tr := range sweep.Transitions {
		sb.WriteString(TransitionStyle.Render(
			fmt.Sprintf("%s transition at I=%.3f (row %d)", tr.Kind, tr.Stimulus, tr.Index)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func styleFor(label analysis.Stability) interface{ Render(...string) string } {
	switch label {
	case analysis.Stable:
		return StableStyle
	case analysis.Unstable:
		return UnstableStyle
	case analysis.Saddle:
		return SaddleStyle
	default:
		return DimStyle
	}
}

func numCell(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}
