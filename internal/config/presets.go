package config

var Presets = map[string]*Config{
	// The three excitability classes with their canonical sweep windows.
	"class1": {
		Class: "class1", Integrator: "bdf2", Dt: DefaultDt, Duration: DefaultDuration,
		Stimulus:  35,
		InitState: InitStateConfig{V: DefaultV0, W: DefaultW0},
		Sweep:     SweepConfig{From: 25, To: 55, Step: 0.5, Horizon: DefaultHorizon, Transient: DefaultTransient},
	},
	"class2": {
		Class: "class2", Integrator: "bdf2", Dt: DefaultDt, Duration: DefaultDuration,
		Stimulus:  DefaultStimulus,
		InitState: InitStateConfig{V: DefaultV0, W: DefaultW0},
		Sweep:     SweepConfig{From: DefaultSweepFrom, To: DefaultSweepTo, Step: DefaultSweepStep, Horizon: DefaultHorizon, Transient: DefaultTransient},
	},
	"class3": {
		Class: "class3", Integrator: "bdf2", Dt: DefaultDt, Duration: DefaultDuration,
		Stimulus:  60,
		InitState: InitStateConfig{V: DefaultV0, W: DefaultW0},
		Sweep:     SweepConfig{From: 40, To: 90, Step: 1, Horizon: DefaultHorizon, Transient: DefaultTransient},
	},

	// Demo scenarios.
	"subthreshold": {
		Class: "class2", Integrator: "bdf2", Dt: DefaultDt, Duration: 300,
		Stimulus:  38,
		InitState: InitStateConfig{V: DefaultV0, W: DefaultW0},
		Sweep:     SweepConfig{From: DefaultSweepFrom, To: DefaultSweepTo, Step: DefaultSweepStep, Horizon: DefaultHorizon, Transient: DefaultTransient},
	},
	"spiking": {
		Class: "class2", Integrator: "bdf2", Dt: DefaultDt, Duration: 300,
		Stimulus:  45,
		InitState: InitStateConfig{V: DefaultV0, W: DefaultW0},
		Sweep:     SweepConfig{From: DefaultSweepFrom, To: DefaultSweepTo, Step: DefaultSweepStep, Horizon: DefaultHorizon, Transient: DefaultTransient},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
