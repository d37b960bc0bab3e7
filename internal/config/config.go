package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/data"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/market"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/optimizer"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/scenario"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape. Files ending in .toml are read
// as TOML, anything else as YAML.
type Config struct {
	Data     DataConfig     `yaml:"data" toml:"data" json:"data"`
	Identity IdentityConfig `yaml:"identity" toml:"identity" json:"identity"`
	Market   MarketConfig   `yaml:"market" toml:"market" json:"market"`

	// Optional: load the roster from a separate file (e.g. configs/rosters/*.yaml).
	// If both RosterFile and Roster are provided, Roster overrides RosterFile.
	RosterFile string       `yaml:"roster_file" toml:"roster_file" json:"roster_file,omitempty"`
	Roster     RosterConfig `yaml:"roster" toml:"roster" json:"roster"`

	// Budget defaults to 200 when omitted.
	Budget    *float64        `yaml:"budget" toml:"budget" json:"budget,omitempty"`
	Optimizer OptimizerConfig `yaml:"optimizer" toml:"optimizer" json:"optimizer"`
	Scenarios scenario.Params `yaml:"scenarios" toml:"scenarios" json:"scenarios"`
	Output    OutputConfig    `yaml:"output" toml:"output" json:"output"`
	Fetch     FetchConfig     `yaml:"fetch" toml:"fetch" json:"fetch"`
}

type DataConfig struct {
	Projections []string          `yaml:"projections" toml:"projections" json:"projections"`
	Auction     string            `yaml:"auction" toml:"auction" json:"auction,omitempty"`
	ADP         string            `yaml:"adp" toml:"adp" json:"adp,omitempty"`
	Risk        string            `yaml:"risk" toml:"risk" json:"risk,omitempty"`
	AliasesFile string            `yaml:"aliases_file" toml:"aliases_file" json:"aliases_file,omitempty"`
	Aliases     map[string]string `yaml:"aliases" toml:"aliases" json:"aliases,omitempty"`
}

type IdentityConfig struct {
	Strict bool `yaml:"strict" toml:"strict" json:"strict"`
	// FuzzyMaxDistance defaults to 2; 0 disables fuzzy matching.
	FuzzyMaxDistance *int `yaml:"fuzzy_max_distance" toml:"fuzzy_max_distance" json:"fuzzy_max_distance,omitempty"`
}

type MarketConfig struct {
	Normalization       string                          `yaml:"normalization" toml:"normalization" json:"normalization,omitempty"`
	Weights             *market.Weights                 `yaml:"weights" toml:"weights" json:"weights,omitempty"`
	RiskMode            string                          `yaml:"risk_mode" toml:"risk_mode" json:"risk_mode,omitempty"`
	Defaults            map[string]market.SourceDefault `yaml:"defaults" toml:"defaults" json:"defaults,omitempty"`
	ReplacementQuantile *float64                        `yaml:"replacement_quantile" toml:"replacement_quantile" json:"replacement_quantile,omitempty"`
	MinBid              *float64                        `yaml:"min_bid" toml:"min_bid" json:"min_bid,omitempty"`
	PriceInflation      float64                         `yaml:"price_inflation" toml:"price_inflation" json:"price_inflation"`
	DefaultRisk         float64                         `yaml:"default_risk" toml:"default_risk" json:"default_risk"`
}

type RosterConfig struct {
	Preset string             `yaml:"preset" toml:"preset" json:"preset,omitempty"`
	Slots  []model.RosterSlot `yaml:"slots" toml:"slots" json:"slots,omitempty"`
}

type OptimizerConfig struct {
	Name   string         `yaml:"name" toml:"name" json:"name"`
	Params map[string]any `yaml:"params" toml:"params" json:"params,omitempty"`
}

type OutputConfig struct {
	Dir         string `yaml:"dir" toml:"dir" json:"dir"`
	PerScenario bool   `yaml:"per_scenario" toml:"per_scenario" json:"per_scenario"`
}

// FetchConfig drives the projections fetcher.
type FetchConfig struct {
	BaseURL string `yaml:"base_url" toml:"base_url" json:"base_url,omitempty"`
	Weeks   int    `yaml:"weeks" toml:"weeks" json:"weeks"`
	Retries *int   `yaml:"retries" toml:"retries" json:"retries,omitempty"`
	Dir     string `yaml:"dir" toml:"dir" json:"dir"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	var c Config
	if err := decodeFile(path, &c); err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if c.RosterFile != "" {
		loaded, err := loadRosterFile(resolve(dir, c.RosterFile))
		if err != nil {
			return nil, err
		}
		c.Roster = MergeRoster(loaded, c.Roster)
	}

	// Data paths are relative to the config file when that file exists,
	// else to the working directory.
	for i, p := range c.Data.Projections {
		c.Data.Projections[i] = resolve(dir, p)
	}
	c.Data.Auction = resolve(dir, c.Data.Auction)
	c.Data.ADP = resolve(dir, c.Data.ADP)
	c.Data.Risk = resolve(dir, c.Data.Risk)
	c.Data.AliasesFile = resolve(dir, c.Data.AliasesFile)
	return &c, nil
}

func decodeFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read config", goerr.V(model.FileKey, path))
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(raw, v)
	} else {
		err = yaml.Unmarshal(raw, v)
	}
	if err != nil {
		return goerr.Wrap(model.ErrInvalidConfiguration, "failed to parse config",
			goerr.V(model.FileKey, path), goerr.V("cause", err.Error()))
	}
	return nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(dir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

func (c *Config) applyDefaults() {
	if c.Budget == nil {
		b := 200.0
		c.Budget = &b
	}
	if c.Identity.FuzzyMaxDistance == nil {
		d := 2
		c.Identity.FuzzyMaxDistance = &d
	}
	if c.Market.Normalization == "" {
		c.Market.Normalization = string(market.NormalizeZScore)
	}
	if c.Market.RiskMode == "" {
		c.Market.RiskMode = string(market.RiskMultiplicative)
	}
	if c.Roster.Preset == "" && len(c.Roster.Slots) == 0 {
		c.Roster.Preset = "standard"
	}
	if c.Optimizer.Name == "" {
		c.Optimizer.Name = optimizer.NameGreedy
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "outputs"
	}
	if c.Fetch.Weeks == 0 {
		c.Fetch.Weeks = 17
	}
	if c.Fetch.Dir == "" {
		c.Fetch.Dir = "data"
	}
}

func invalid(field string, value any, msg string) error {
	return goerr.Wrap(model.ErrInvalidConfiguration, msg, goerr.V(model.FieldKey, field), goerr.V(model.ValueKey, value))
}

func (c *Config) Validate() error {
	if c == nil {
		return goerr.Wrap(model.ErrInvalidConfiguration, "config is nil")
	}
	if c.Budget == nil || *c.Budget <= 0 {
		return invalid("budget", c.Budget, "budget must be > 0")
	}
	if d := c.Identity.FuzzyMaxDistance; d != nil && *d < 0 {
		return invalid("identity.fuzzy_max_distance", *d, "must be >= 0")
	}
	if _, err := c.Slots(); err != nil {
		return err
	}
	if err := c.MarketParams().Validate(); err != nil {
		return err
	}
	if _, err := c.ScenarioParams().Resolve(); err != nil {
		return err
	}
	if _, err := c.NewOptimizer(); err != nil {
		return err
	}
	if c.Fetch.Weeks < 0 {
		return invalid("fetch.weeks", c.Fetch.Weeks, "must be > 0")
	}
	return nil
}

// BudgetValue returns the budget, 0 when unset.
func (c *Config) BudgetValue() float64 {
	if c.Budget == nil {
		return 0
	}
	return *c.Budget
}

// Slots returns explicit slots if configured, else the named preset.
func (c *Config) Slots() ([]model.RosterSlot, error) {
	if len(c.Roster.Slots) > 0 {
		slots := model.NormalizeSlots(c.Roster.Slots)
		if err := model.ValidateSlots(slots); err != nil {
			return nil, err
		}
		return slots, nil
	}
	name := c.Roster.Preset
	if name == "" {
		name = "standard"
	}
	return model.Preset(name)
}

func (c *Config) MarketParams() market.Params {
	p := market.DefaultParams()
	m := c.Market
	if m.Weights != nil {
		p.Weights = *m.Weights
	}
	if m.Normalization != "" {
		p.Normalization = market.Normalization(m.Normalization)
	}
	if m.RiskMode != "" {
		p.RiskMode = market.RiskMode(m.RiskMode)
	}
	if len(m.Defaults) > 0 {
		p.Defaults = make(map[model.SourceName]market.SourceDefault, len(m.Defaults))
		for k, v := range m.Defaults {
			p.Defaults[model.SourceName(strings.ToLower(k))] = v
		}
	}
	if m.ReplacementQuantile != nil {
		p.ReplacementQuantile = *m.ReplacementQuantile
	}
	if m.MinBid != nil {
		p.MinBid = *m.MinBid
	}
	p.PriceInflation = m.PriceInflation
	p.DefaultRisk = m.DefaultRisk
	return p
}

// ScenarioParams carries the market's default risk into the scenario run.
func (c *Config) ScenarioParams() scenario.Params {
	p := c.Scenarios
	p.DefaultRisk = c.Market.DefaultRisk
	return p
}

func (c *Config) NewOptimizer() (optimizer.Optimizer, error) {
	return optimizer.New(c.Optimizer.Name, c.Optimizer.Params)
}

// LoadOptions reads the aliases file, if any, and merges inline aliases over
// it.
func (c *Config) LoadOptions() (data.LoadOptions, error) {
	aliases := map[string]string{}
	if c.Data.AliasesFile != "" {
		loaded, err := data.LoadAliases(c.Data.AliasesFile)
		if err != nil {
			return data.LoadOptions{}, err
		}
		for k, v := range loaded {
			aliases[k] = v
		}
	}
	for k, v := range c.Data.Aliases {
		aliases[k] = v
	}
	fuzzy := 2
	if c.Identity.FuzzyMaxDistance != nil {
		fuzzy = *c.Identity.FuzzyMaxDistance
	}
	return data.LoadOptions{
		Projections:      c.Data.Projections,
		Auction:          c.Data.Auction,
		ADP:              c.Data.ADP,
		Risk:             c.Data.Risk,
		Aliases:          aliases,
		Strict:           c.Identity.Strict,
		FuzzyMaxDistance: fuzzy,
	}, nil
}

type rosterFileWrapper struct {
	Roster RosterConfig `yaml:"roster" toml:"roster"`
}

func loadRosterFile(path string) (RosterConfig, error) {
	var w rosterFileWrapper
	if err := decodeFile(path, &w); err != nil {
		return RosterConfig{}, err
	}
	return w.Roster, nil
}

// MergeRoster overlays the non-empty fields of override onto base. Explicit
// slots win over any preset.
func MergeRoster(base, override RosterConfig) RosterConfig {
	out := base
	if override.Preset != "" {
		out.Preset = override.Preset
		out.Slots = nil
	}
	if len(override.Slots) > 0 {
		out.Slots = override.Slots
	}
	return out
}
