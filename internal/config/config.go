package config

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/neurodyn/internal/neuron"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 0.05
	DefaultDuration  = 300.0
	DefaultStimulus  = 40.0
	DefaultSweepFrom = 30.0
	DefaultSweepTo   = 60.0
	DefaultSweepStep = 0.5
	DefaultHorizon   = 500.0
	DefaultTransient = 200.0
	DefaultV0        = -70.0
	DefaultW0        = 0.0
)

// Config is the YAML-backed analysis configuration. Params overrides are
// applied on top of the selected excitability class.
type Config struct {
	Class      string             `yaml:"class"`
	Integrator string             `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Stimulus   float64            `yaml:"stimulus"`
	InitState  InitStateConfig    `yaml:"init_state"`
	Params     map[string]float64 `yaml:"params"`
	Sweep      SweepConfig        `yaml:"sweep"`
}

type InitStateConfig struct {
	V float64 `yaml:"v"`
	W float64 `yaml:"w"`
}

type SweepConfig struct {
	From       float64       `yaml:"from"`
	To         float64       `yaml:"to"`
	Step       float64       `yaml:"step"`
	Horizon    float64       `yaml:"horizon"`
	Transient  float64       `yaml:"transient"`
	Threshold  float64       `yaml:"threshold"`
	Workers    int           `yaml:"workers"`
	RowTimeout time.Duration `yaml:"row_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Class:      "class2",
		Integrator: "bdf2",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Stimulus:   DefaultStimulus,
		InitState:  InitStateConfig{V: DefaultV0, W: DefaultW0},
		Sweep: SweepConfig{
			From:      DefaultSweepFrom,
			To:        DefaultSweepTo,
			Step:      DefaultSweepStep,
			Horizon:   DefaultHorizon,
			Transient: DefaultTransient,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ModelParameters resolves the class name and applies any per-name
// overrides from the params section.
func (c *Config) ModelParameters() (neuron.ModelParameters, error) {
	var p neuron.ModelParameters
	switch c.Class {
	case "", "class2":
		p = neuron.Class2Parameters()
	case "class1":
		p = neuron.Class1Parameters()
	case "class3":
		p = neuron.Class3Parameters()
	default:
		return p, fmt.Errorf("unknown excitability class: %s", c.Class)
	}

	if len(c.Params) > 0 {
		cell := neuron.NewCell(p)
		for name, val := range c.Params {
			if err := cell.SetParam(name, val); err != nil {
				return p, err
			}
		}
		p = cell.P
	}

	return p, p.Validate()
}
