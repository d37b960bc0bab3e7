package scenario

import (
	"runtime"
	"sort"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/m-mizutani/goerr/v2"
)

// Mode selects how value noise is drawn.
type Mode string

const (
	// ModeUniform jitters every player with the same stddev.
	ModeUniform Mode = "uniform"
	// ModeScaled scales the stddev by the player's risk.
	ModeScaled Mode = "scaled"
	// ModeBust adds scaled jitter plus a risk-weighted chance of a bust.
	ModeBust Mode = "bust"
)

// Params configures a scenario batch. Seed nil means draw one from the clock;
// the seed used is reported in the result.
type Params struct {
	NumScenarios int     `json:"num_scenarios" yaml:"num_scenarios" toml:"num_scenarios"`
	Stddev       float64 `json:"value_jitter_stddev" yaml:"value_jitter_stddev" toml:"value_jitter_stddev"`
	Mode         Mode    `json:"risk_sampling_mode" yaml:"risk_sampling_mode" toml:"risk_sampling_mode"`
	Seed         *uint64 `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
	Parallelism  int     `json:"parallelism" yaml:"parallelism" toml:"parallelism"`
	BustFactor   float64 `json:"bust_factor" yaml:"bust_factor" toml:"bust_factor"`
	Preset       string  `json:"preset,omitempty" yaml:"preset,omitempty" toml:"preset,omitempty"`
	// DefaultRisk stands in for players without a risk score.
	DefaultRisk float64 `json:"-" yaml:"-" toml:"-"`
}

var presets = map[string]Params{
	"calm":     {NumScenarios: 100, Stddev: 0.10, Mode: ModeUniform},
	"standard": {NumScenarios: 200, Stddev: 0.20, Mode: ModeScaled},
	"volatile": {NumScenarios: 300, Stddev: 0.35, Mode: ModeBust, BustFactor: 0.35},
}

// PresetNames lists the named scenario presets.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Preset returns a named preset.
func Preset(name string) (Params, error) {
	p, ok := presets[name]
	if !ok {
		return Params{}, goerr.Wrap(model.ErrInvalidConfiguration, "unknown scenario preset",
			goerr.V("preset", name), goerr.V("available", PresetNames()))
	}
	return p, nil
}

// Resolve fills unset fields from the named preset, then from defaults.
func (p Params) Resolve() (Params, error) {
	if p.Preset != "" {
		base, err := Preset(p.Preset)
		if err != nil {
			return p, err
		}
		if p.NumScenarios == 0 {
			p.NumScenarios = base.NumScenarios
		}
		if p.Stddev == 0 {
			p.Stddev = base.Stddev
		}
		if p.Mode == "" {
			p.Mode = base.Mode
		}
		if p.BustFactor == 0 {
			p.BustFactor = base.BustFactor
		}
	}
	if p.NumScenarios == 0 {
		p.NumScenarios = 100
	}
	if p.Stddev == 0 {
		p.Stddev = 0.15
	}
	if p.Mode == "" {
		p.Mode = ModeUniform
	}
	if p.BustFactor == 0 {
		p.BustFactor = 0.35
	}
	if p.Parallelism == 0 {
		p.Parallelism = runtime.GOMAXPROCS(0)
	}
	return p, p.Validate()
}

func invalid(field string, value any, msg string) error {
	return goerr.Wrap(model.ErrInvalidConfiguration, msg, goerr.V(model.FieldKey, field), goerr.V(model.ValueKey, value))
}

func (p Params) Validate() error {
	if p.NumScenarios < 1 {
		return invalid("scenarios.num_scenarios", p.NumScenarios, "must be >= 1")
	}
	if p.Stddev < 0 {
		return invalid("scenarios.value_jitter_stddev", p.Stddev, "must be >= 0")
	}
	switch p.Mode {
	case ModeUniform, ModeScaled, ModeBust:
	default:
		return invalid("scenarios.risk_sampling_mode", p.Mode, "unknown sampling mode")
	}
	if p.Parallelism < 1 {
		return invalid("scenarios.parallelism", p.Parallelism, "must be >= 1")
	}
	if p.BustFactor < 0 || p.BustFactor > 1 {
		return invalid("scenarios.bust_factor", p.BustFactor, "must be within [0,1]")
	}
	if p.DefaultRisk < 0 || p.DefaultRisk > 1 {
		return invalid("market.default_risk", p.DefaultRisk, "must be within [0,1]")
	}
	return nil
}
