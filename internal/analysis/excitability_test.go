package analysis_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neurodyn/internal/analysis"
	"github.com/san-kum/neurodyn/internal/dynamo"
	"github.com/san-kum/neurodyn/internal/integrators"
	"github.com/san-kum/neurodyn/internal/neuron"
)

func simulateFromRest(params neuron.ModelParameters, stim, duration, dt float64) *dynamo.Trajectory {
	cell := neuron.NewCell(params)
	solver := dynamo.NewSolver(cell, integrators.NewBDF2())

	cfg := dynamo.DefaultConfig()
	cfg.Dt = dt

	grid := dynamo.SampleGrid(0, duration, int(duration/dt)+1)
	traj, err := solver.Run(context.Background(), dynamo.State{-70, 0}, dynamo.Control{stim}, 0, duration, grid, cfg)
	Expect(err).NotTo(HaveOccurred())
	return traj
}

func firstOnset(params neuron.ModelParameters) (float64, bool) {
	stimuli := analysis.Stimuli(30, 60, 1)
	sweep := analysis.SweepBifurcation(context.Background(), params, stimuli, analysis.DefaultSweepOptions())
	if len(sweep.Transitions) == 0 {
		return 0, false
	}
	return sweep.Transitions[0].Stimulus, true
}

var _ = Describe("stimulus response of the default cell", func() {
	opts := analysis.DefaultOscillationOptions()

	It("stays subthreshold at I=38", func() {
		traj := simulateFromRest(neuron.Class2Parameters(), 38, 300, 0.05)
		osc := analysis.AnalyzeOscillation(traj, opts)

		Expect(osc.SpikeCount).To(BeZero())
		Expect(osc.Frequency).To(BeZero())
	})

	It("fires repetitively at I=45", func() {
		traj := simulateFromRest(neuron.Class2Parameters(), 45, 300, 0.05)
		osc := analysis.AnalyzeOscillation(traj, opts)

		Expect(osc.SpikeCount).To(BeNumerically(">=", 2))
		Expect(osc.Frequency).To(BeNumerically(">", 0))
		Expect(osc.VMax).To(BeNumerically(">", opts.Threshold))
	})

	It("stays at rest when started exactly on a stable equilibrium", func() {
		cell := neuron.NewCell(neuron.Class2Parameters())
		fp := analysis.LocateFixedPoint(cell, 30, analysis.DefaultLocateOptions())
		Expect(fp.Converged).To(BeTrue())

		solver := dynamo.NewSolver(cell, integrators.NewBDF2())
		cfg := dynamo.DefaultConfig()
		grid := dynamo.SampleGrid(0, 200, 4001)
		traj, err := solver.Run(context.Background(), dynamo.State{fp.V, fp.W}, dynamo.Control{30}, 0, 200, grid, cfg)
		Expect(err).NotTo(HaveOccurred())

		for _, s := range traj.States {
			Expect(s[neuron.IdxV]).To(BeNumerically("~", fp.V, 0.5))
		}
	})

	It("returns to rest from a perturbed stable equilibrium", func() {
		cell := neuron.NewCell(neuron.Class2Parameters())
		fp := analysis.LocateFixedPoint(cell, 30, analysis.DefaultLocateOptions())
		Expect(fp.Converged).To(BeTrue())

		solver := dynamo.NewSolver(cell, integrators.NewBDF2())
		cfg := dynamo.DefaultConfig()
		grid := dynamo.SampleGrid(0, 300, 6001)
		traj, err := solver.Run(context.Background(), dynamo.State{fp.V + 1, fp.W}, dynamo.Control{30}, 0, 300, grid, cfg)
		Expect(err).NotTo(HaveOccurred())

		final := traj.States[traj.Len()-1]
		Expect(final[neuron.IdxV]).To(BeNumerically("~", fp.V, 0.1))
	})
})

var _ = Describe("excitability classes", func() {
	It("orders spiking onset by the recovery midpoint", func() {
		onset1, ok1 := firstOnset(neuron.Class1Parameters())
		onset2, ok2 := firstOnset(neuron.Class2Parameters())

		Expect(ok1).To(BeTrue(), "class 1 should destabilize within the window")
		Expect(ok2).To(BeTrue(), "class 2 should destabilize within the window")
		Expect(onset1).To(BeNumerically("<=", onset2))
	})

	It("keeps the low-midpoint cell from destabilizing before the default cell", func() {
		onset2, ok2 := firstOnset(neuron.Class2Parameters())
		Expect(ok2).To(BeTrue())

		onset3, ok3 := firstOnset(neuron.Class3Parameters())
		if ok3 {
			Expect(onset3).To(BeNumerically(">=", onset2))
		}
	})
})
