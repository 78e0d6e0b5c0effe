// Package config loads the experiment configuration of pipebench.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-pipebench/pkg/cpu"
	"github.com/askiada/go-pipebench/pkg/experiment"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CPU is one simulated CPU configuration.
type CPU struct {
	Name   string `yaml:"name" validate:"required"`
	Stages int    `yaml:"stages" validate:"gt=0"`
}

// Config is the whole pipebench configuration. Flags override the values of the file.
type Config struct {
	CPUs        []CPU         `yaml:"cpus" validate:"required,min=1,unique=Name,dive"`
	Runs        int           `yaml:"runs" validate:"gt=0"`
	InputSize   int           `yaml:"input_size" validate:"gt=0"`
	Low         int           `yaml:"low"`
	High        int           `yaml:"high" validate:"gtefield=Low"`
	Seed        uint64        `yaml:"seed"`
	BaseDelay   time.Duration `yaml:"base_delay" validate:"gt=0"`
	Chart       string        `yaml:"chart"`
	GraphDir    string        `yaml:"graph_dir"`
	Record      string        `yaml:"record"`
	MetricsFile string        `yaml:"metrics_file"`
	LogLevel    string        `yaml:"log_level" validate:"oneof=panic fatal error warn warning info debug trace"`
}

// Default returns the reference experiment.
func Default() Config {
	return Config{
		CPUs: []CPU{
			{Name: "Basic (No Pipeline)", Stages: 1},
			{Name: "2-Stage Pipeline", Stages: 2},
			{Name: "4-Stage Pipeline", Stages: 4},
		},
		Runs:      experiment.DefaultRuns,
		InputSize: experiment.DefaultInputSize,
		Low:       experiment.DefaultLow,
		High:      experiment.DefaultHigh,
		BaseDelay: cpu.BaseDelay,
		Chart:     "performance.svg",
		LogLevel:  "info",
	}
}

// Load reads the YAML file at path on top of Default. Unknown keys are rejected.
// An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "unable to read %s", path)
	}

	err = cfg.Decode(bytes.NewReader(data))
	if err != nil {
		return cfg, errors.Wrapf(err, "unable to parse %s", path)
	}

	return cfg, nil
}

// Decode overrides cfg with the YAML document read from rdr.
func (cfg *Config) Decode(rdr io.Reader) error {
	dec := yaml.NewDecoder(rdr)
	dec.KnownFields(true)

	err := dec.Decode(cfg)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

// Validate checks every field before any run starts.
func (cfg Config) Validate() error {
	return errors.Wrap(validate.Struct(cfg), "invalid configuration")
}

// Experiment converts cfg into the configuration of experiment.Run.
func (cfg Config) Experiment() experiment.Config {
	cpus := make([]experiment.CPU, 0, len(cfg.CPUs))
	for _, c := range cfg.CPUs {
		cpus = append(cpus, experiment.CPU{Name: c.Name, Stages: c.Stages})
	}

	return experiment.Config{
		CPUs:      cpus,
		Runs:      cfg.Runs,
		InputSize: cfg.InputSize,
		Low:       cfg.Low,
		High:      cfg.High,
		Seed:      cfg.Seed,
		BaseDelay: cfg.BaseDelay,
		GraphDir:  cfg.GraphDir,
	}
}
