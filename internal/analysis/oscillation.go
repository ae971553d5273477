package analysis

import (
	"math"

	"github.com/san-kum/neurodyn/internal/dynamo"
	"github.com/san-kum/neurodyn/internal/neuron"
)

// Oscillation summarizes the spiking content of a trajectory.
//
// Frequency is 1000/mean(inter-spike interval) in Hz (time units are ms);
// zero when fewer than two spikes were found, which is an ordinary outcome,
// not an error. VMax/VMin are the voltage extrema after the transient
// window and are NaN for an empty tail.
type Oscillation struct {
	Frequency  float64
	VMax       float64
	VMin       float64
	SpikeCount int
	SpikeTimes []float64
}

// OscillationOptions configures spike detection and transient rejection.
type OscillationOptions struct {
	Threshold       float64 // upward-crossing voltage threshold (mV)
	TransientCutoff float64 // samples with time <= cutoff are excluded from extrema
}

func DefaultOscillationOptions() OscillationOptions {
	return OscillationOptions{
		Threshold:       0,
		TransientCutoff: 200,
	}
}

// AnalyzeOscillation detects upward threshold crossings (V[i] < th <=
// V[i+1]) with linear interpolation of the crossing times, and measures
// the limit-cycle voltage extrema on the post-transient tail. The initial
// transient's overshoot is not part of the asymptotic cycle, so it never
// contributes to VMax/VMin.
func AnalyzeOscillation(traj *dynamo.Trajectory, opts OscillationOptions) Oscillation {
	osc := Oscillation{
		VMax: math.NaN(),
		VMin: math.NaN(),
	}
	if traj == nil || traj.Len() == 0 {
		return osc
	}

	for i := 0; i+1 < traj.Len(); i++ {
		v0 := traj.States[i][neuron.IdxV]
		v1 := traj.States[i+1][neuron.IdxV]
		if v0 < opts.Threshold && v1 >= opts.Threshold {
			frac := (opts.Threshold - v0) / (v1 - v0)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			t := traj.Times[i] + frac*(traj.Times[i+1]-traj.Times[i])
			osc.SpikeTimes = append(osc.SpikeTimes, t)
		}
	}
	osc.SpikeCount = len(osc.SpikeTimes)

	if osc.SpikeCount >= 2 {
		meanISI := (osc.SpikeTimes[osc.SpikeCount-1] - osc.SpikeTimes[0]) / float64(osc.SpikeCount-1)
		if meanISI > 0 {
			osc.Frequency = 1000 / meanISI
		}
	}

	tail := traj.Tail(opts.TransientCutoff)
	if tail.Len() > 0 {
		vmax := math.Inf(-1)
		vmin := math.Inf(1)
		for _, s := range tail.States {
			v := s[neuron.IdxV]
			vmax = math.Max(vmax, v)
			vmin = math.Min(vmin, v)
		}
		osc.VMax = vmax
		osc.VMin = vmin
	}

	return osc
}
