package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/neurodyn/internal/neuron"
)

func TestStimuli(t *testing.T) {
	tests := []struct {
		name  string
		from  float64
		to    float64
		step  float64
		count int
	}{
		{"canonical window", 30, 60, 0.5, 61},
		{"unit step", 30, 60, 1, 31},
		{"single point", 40, 40, 1, 1},
		{"uneven step", 0, 1, 0.3, 4},
		{"reversed", 60, 30, 1, 0},
		{"zero step", 30, 60, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Stimuli(tt.from, tt.to, tt.step)
			if len(got) != tt.count {
				t.Fatalf("expected %d stimuli, got %d: %v", tt.count, len(got), got)
			}
			if tt.count > 0 && got[0] != tt.from {
				t.Errorf("expected first stimulus %f, got %f", tt.from, got[0])
			}
		})
	}
}

func TestDetectTransitions(t *testing.T) {
	conv := FixedPoint{Converged: true}
	lost := FixedPoint{Converged: false}

	records := []Record{
		{Stimulus: 30, Label: Stable, Point: conv},
		{Stimulus: 31, Label: Stable, Point: conv},
		{Stimulus: 32, Label: Unstable, Point: conv},
		{Stimulus: 33, Label: Unstable, Point: lost},
	}

	trs := DetectTransitions(records)
	if len(trs) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(trs))
	}

	if trs[0].Kind != HopfProxy || trs[0].Stimulus != 32 {
		t.Errorf("expected hopf at I=32, got %v at I=%f", trs[0].Kind, trs[0].Stimulus)
	}
	if trs[1].Kind != EquilibriumLoss || trs[1].Stimulus != 33 {
		t.Errorf("expected equilibrium loss at I=33, got %v at I=%f", trs[1].Kind, trs[1].Stimulus)
	}

	if got := DetectTransitions(nil); len(got) != 0 {
		t.Errorf("expected no transitions for empty sweep, got %d", len(got))
	}
}

func TestSweepBifurcationClass2(t *testing.T) {
	if testing.Short() {
		t.Skip("full sweep in short mode")
	}

	stimuli := Stimuli(30, 60, 1)
	sweep := SweepBifurcation(context.Background(), neuron.Class2Parameters(), stimuli, DefaultSweepOptions())

	if len(sweep.Records) != len(stimuli) {
		t.Fatalf("expected %d records, got %d", len(stimuli), len(sweep.Records))
	}

	var hopf []Transition
	for _, tr := range sweep.Transitions {
		if tr.Kind == HopfProxy {
			hopf = append(hopf, tr)
		}
	}
	if len(hopf) != 1 {
		t.Fatalf("expected exactly one stable-to-unstable transition, got %d: %v", len(hopf), sweep.Transitions)
	}

	onset := hopf[0].Index

	if sweep.Records[0].Label != Stable {
		t.Errorf("expected stable equilibrium at sweep start, got %v", sweep.Records[0].Label)
	}
	if last := sweep.Records[len(sweep.Records)-1]; last.Label != Unstable {
		t.Errorf("expected unstable equilibrium at sweep end, got %v", last.Label)
	}

	// The hallmark of this onset: firing starts at a nonzero rate rather
	// than ramping up from zero.
	before := sweep.Records[onset-1]
	after := sweep.Records[onset]
	if before.Frequency != 0 {
		t.Errorf("expected zero frequency below onset, got %f", before.Frequency)
	}
	if math.IsNaN(after.Frequency) || after.Frequency <= 0 {
		t.Errorf("expected positive frequency at onset, got %f (err %v)", after.Frequency, after.Err)
	}

	// Resting rows carry no limit-cycle envelope.
	if !math.IsNaN(before.VMax) {
		t.Errorf("expected NaN envelope for resting row, got %f", before.VMax)
	}
	if math.IsNaN(after.VMax) || after.VMax <= after.VMin {
		t.Errorf("expected spiking envelope at onset, got (%f, %f)", after.VMax, after.VMin)
	}
}

func TestSweepWorkersMatchSequential(t *testing.T) {
	if testing.Short() {
		t.Skip("full sweep in short mode")
	}

	stimuli := Stimuli(38, 48, 2)

	seq := SweepBifurcation(context.Background(), neuron.Class2Parameters(), stimuli, DefaultSweepOptions())

	opts := DefaultSweepOptions()
	opts.Workers = 4
	par := SweepBifurcation(context.Background(), neuron.Class2Parameters(), stimuli, opts)

	if len(seq.Records) != len(par.Records) {
		t.Fatalf("record count mismatch: %d vs %d", len(seq.Records), len(par.Records))
	}
	for i := range seq.Records {
		a, b := seq.Records[i], par.Records[i]
		if a.Stimulus != b.Stimulus || a.Label != b.Label {
			t.Errorf("row %d diverged: (%f, %v) vs (%f, %v)", i, a.Stimulus, a.Label, b.Stimulus, b.Label)
		}
		if a.Frequency != b.Frequency && !(math.IsNaN(a.Frequency) && math.IsNaN(b.Frequency)) {
			t.Errorf("row %d frequency diverged: %f vs %f", i, a.Frequency, b.Frequency)
		}
	}
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stimuli := Stimuli(30, 35, 1)
	sweep := SweepBifurcation(ctx, neuron.Class2Parameters(), stimuli, DefaultSweepOptions())

	if len(sweep.Records) != len(stimuli) {
		t.Fatalf("expected placeholder records for all stimuli, got %d", len(sweep.Records))
	}
	for i, r := range sweep.Records {
		if r.Label != Indeterminate {
			t.Errorf("row %d: expected indeterminate after cancellation, got %v", i, r.Label)
		}
		if r.Err == nil {
			t.Errorf("row %d: expected cancellation error", i)
		}
	}
}

func TestTransitionKindString(t *testing.T) {
	if HopfProxy.String() != "hopf" {
		t.Errorf("unexpected hopf string %q", HopfProxy.String())
	}
	if EquilibriumLoss.String() != "equilibrium-loss" {
		t.Errorf("unexpected loss string %q", EquilibriumLoss.String())
	}
}
