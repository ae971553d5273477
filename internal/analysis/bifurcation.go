package analysis

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/san-kum/neurodyn/internal/dynamo"
	"github.com/san-kum/neurodyn/internal/integrators"
	"github.com/san-kum/neurodyn/internal/neuron"
)

// Record is one row of a bifurcation sweep: the equilibrium and its
// classification at a single stimulus value, plus limit-cycle measurements
// when the equilibrium is unstable. Extrema are NaN and frequency 0 when
// the cell rests; frequency is NaN when the row is indeterminate (lost
// equilibrium or failed integration).
type Record struct {
	Stimulus    float64
	Point       FixedPoint
	Label       Stability
	Eigenvalues [2]complex128
	VMax        float64
	VMin        float64
	Frequency   float64
	Err         error
}

// TransitionKind distinguishes the two transition proxies the sweep
// detects.
type TransitionKind int

const (
	// HopfProxy marks an adjacent stable-to-unstable label change.
	HopfProxy TransitionKind = iota
	// EquilibriumLoss marks the locator's confidence dropping between
	// adjacent rows, the discrete proxy for a saddle-node/SNIC event.
	EquilibriumLoss
)

func (k TransitionKind) String() string {
	if k == EquilibriumLoss {
		return "equilibrium-loss"
	}
	return "hopf"
}

// Transition is a detected stability change, reported as an index into the
// sweep with its stimulus value. No sub-grid localization is attempted.
type Transition struct {
	Index    int
	Stimulus float64
	Kind     TransitionKind
}

// Sweep is the ordered result of a stimulus sweep.
type Sweep struct {
	Records     []Record
	Transitions []Transition
}

// SweepOptions configures the per-stimulus analysis pipeline.
type SweepOptions struct {
	Locate        LocateOptions
	Osc           OscillationOptions
	Horizon       float64 // simulation length for unstable rows (time units)
	Dt            float64
	Perturbation  float64 // voltage offset applied to the fixed point before integrating
	NewIntegrator func() dynamo.Integrator
	Workers       int           // <=1 runs sequentially
	RowTimeout    time.Duration // per-stimulus integration budget, 0 = none
}

func DefaultSweepOptions() SweepOptions {
	return SweepOptions{
		Locate:        DefaultLocateOptions(),
		Osc:           DefaultOscillationOptions(),
		Horizon:       500,
		Dt:            0.05,
		Perturbation:  1,
		NewIntegrator: func() dynamo.Integrator { return integrators.NewBDF2() },
	}
}

// Stimuli builds the ordered stimulus range [from, to] with the given step.
func Stimuli(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return nil
	}
	n := int((to-from)/step+0.5) + 1
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		s := from + float64(i)*step
		if s > to+1e-9 {
			break
		}
		out = append(out, s)
	}
	return out
}

// IndexedRecord pairs a sweep row with its position in the stimulus
// range, for consumers that receive rows out of order.
type IndexedRecord struct {
	Index  int
	Record Record
}

// SweepBifurcation runs the locate/classify/simulate pipeline for every
// stimulus value and scans the resulting label sequence for transitions.
// Rows are independent; with Workers > 1 they are analyzed concurrently
// and merged back in stimulus order. A single row's failure degrades that
// row to indeterminate and never aborts the rest of the sweep.
func SweepBifurcation(ctx context.Context, params neuron.ModelParameters, stimuli []float64, opts SweepOptions) Sweep {
	records := make([]Record, len(stimuli))
	for ir := range StreamBifurcation(ctx, params, stimuli, opts) {
		records[ir.Index] = ir.Record
	}
	return Sweep{
		Records:     records,
		Transitions: DetectTransitions(records),
	}
}

// StreamBifurcation is the incremental form of [SweepBifurcation]: rows
// arrive on the returned channel as they finish (not necessarily in
// stimulus order when Workers > 1) and the channel closes when the sweep
// is complete. Cancelling the context drains remaining rows as
// indeterminate.
func StreamBifurcation(ctx context.Context, params neuron.ModelParameters, stimuli []float64, opts SweepOptions) <-chan IndexedRecord {
	if opts.NewIntegrator == nil {
		opts.NewIntegrator = DefaultSweepOptions().NewIntegrator
	}

	out := make(chan IndexedRecord)
	go func() {
		defer close(out)

		if opts.Workers > 1 {
			jobs := make(chan int)
			var wg sync.WaitGroup
			for w := 0; w < opts.Workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for idx := range jobs {
						out <- IndexedRecord{Index: idx, Record: analyzeRow(ctx, params, stimuli[idx], opts)}
					}
				}()
			}
			for idx := range stimuli {
				jobs <- idx
			}
			close(jobs)
			wg.Wait()
			return
		}

		for idx, stim := range stimuli {
			out <- IndexedRecord{Index: idx, Record: analyzeRow(ctx, params, stim, opts)}
		}
	}()
	return out
}

func analyzeRow(ctx context.Context, params neuron.ModelParameters, stim float64, opts SweepOptions) Record {
	select {
	case <-ctx.Done():
		return indeterminateRecord(stim, ctx.Err())
	default:
	}
	return analyzeStimulus(ctx, params, stim, opts)
}

// analyzeStimulus produces one sweep row. Each call builds its own cell
// and integrator, so rows can run on separate goroutines.
func analyzeStimulus(ctx context.Context, params neuron.ModelParameters, stim float64, opts SweepOptions) Record {
	cell := neuron.NewCell(params)

	fp := LocateFixedPoint(cell, stim, opts.Locate)
	report := ClassifyStability(cell, fp, stim)

	rec := Record{
		Stimulus:    stim,
		Point:       fp,
		Label:       report.Label,
		Eigenvalues: report.Eigenvalues,
		VMax:        math.NaN(),
		VMin:        math.NaN(),
	}

	switch report.Label {
	case Indeterminate:
		rec.Frequency = math.NaN()
		return rec
	case Unstable:
	default:
		// Stable or saddle equilibrium: the cell rests, no limit cycle.
		return rec
	}

	runCtx := ctx
	if opts.RowTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.RowTimeout)
		defer cancel()
	}

	x0 := dynamo.State{fp.V + opts.Perturbation, fp.W}
	cfg := dynamo.DefaultConfig()
	cfg.Dt = opts.Dt

	solver := dynamo.NewSolver(cell, opts.NewIntegrator())
	grid := dynamo.SampleGrid(0, opts.Horizon, int(opts.Horizon/opts.Dt)+1)

	traj, err := solver.Run(runCtx, x0, dynamo.Control{stim}, 0, opts.Horizon, grid, cfg)
	if err != nil {
		// Integration failure degrades this row only.
		rec.Label = Indeterminate
		rec.Frequency = math.NaN()
		rec.Err = err
		return rec
	}

	osc := AnalyzeOscillation(traj, opts.Osc)
	rec.Frequency = osc.Frequency
	rec.VMax = osc.VMax
	rec.VMin = osc.VMin
	return rec
}

// DetectTransitions scans adjacent rows for the two transition proxies:
// stable-to-unstable label changes and equilibrium disappearance.
func DetectTransitions(records []Record) []Transition {
	var out []Transition
	for i := 0; i+1 < len(records); i++ {
		cur, next := records[i], records[i+1]
		if cur.Label == Stable && next.Label == Unstable {
			out = append(out, Transition{Index: i + 1, Stimulus: next.Stimulus, Kind: HopfProxy})
		}
		if cur.Point.Converged && !next.Point.Converged {
			out = append(out, Transition{Index: i + 1, Stimulus: next.Stimulus, Kind: EquilibriumLoss})
		}
	}
	return out
}

func indeterminateRecord(stim float64, err error) Record {
	return Record{
		Stimulus:  stim,
		Label:     Indeterminate,
		VMax:      math.NaN(),
		VMin:      math.NaN(),
		Frequency: math.NaN(),
		Err:       err,
	}
}
