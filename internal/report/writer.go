package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/scenario"
	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
)

// File names under the output directory.
const (
	MarketFile          = "market.csv"
	RosterFile          = "roster.csv"
	RosterJSONFile      = "roster.json"
	ScenarioSummaryFile = "scenario_summary.json"
	FrequencyFile       = "player_frequency.csv"
	ScenarioDir         = "scenarios"
)

// Writer lays out run artifacts under Dir.
type Writer struct {
	Dir         string
	PerScenario bool
	log         zerolog.Logger
}

// NewWriter defaults dir to "outputs".
func NewWriter(dir string, perScenario bool, log zerolog.Logger) *Writer {
	if dir == "" {
		dir = "outputs"
	}
	return &Writer{Dir: dir, PerScenario: perScenario, log: log}
}

func (w *Writer) path(name ...string) string {
	return filepath.Join(append([]string{w.Dir}, name...)...)
}

// WriteMarket writes market.csv and returns its path.
func (w *Writer) WriteMarket(players []model.Player) (string, error) {
	p := w.path(MarketFile)
	if err := WriteMarketCSV(p, players); err != nil {
		return "", err
	}
	w.log.Info().Str("path", p).Int("players", len(players)).Msg("wrote market")
	return p, nil
}

// WriteRoster writes roster.csv and roster.json.
func (w *Writer) WriteRoster(a *model.RosterAssignment) ([]string, error) {
	csvPath, jsonPath := w.path(RosterFile), w.path(RosterJSONFile)
	if err := WriteRosterCSV(csvPath, a); err != nil {
		return nil, err
	}
	if err := writeJSON(jsonPath, a); err != nil {
		return nil, err
	}
	w.log.Info().Str("path", csvPath).Float64("value", a.TotalValue).Float64("spent", a.Spent).Msg("wrote roster")
	return []string{csvPath, jsonPath}, nil
}

type scenarioSummary struct {
	Seed      uint64           `json:"seed"`
	Optimizer string           `json:"optimizer"`
	Params    scenario.Params  `json:"params"`
	Summary   scenario.Summary `json:"summary"`
}

// WriteScenarios writes scenario_summary.json and player_frequency.csv, plus
// one roster CSV per scenario when PerScenario is set.
func (w *Writer) WriteScenarios(res *scenario.Result) ([]string, error) {
	summaryPath, freqPath := w.path(ScenarioSummaryFile), w.path(FrequencyFile)
	err := writeJSON(summaryPath, scenarioSummary{
		Seed:      res.Seed,
		Optimizer: res.Optimizer,
		Params:    res.Params,
		Summary:   res.Summary,
	})
	if err != nil {
		return nil, err
	}
	if err := WriteFrequencyCSV(freqPath, res.Summary.Frequency); err != nil {
		return nil, err
	}
	paths := []string{summaryPath, freqPath}

	if w.PerScenario {
		for _, s := range res.Scenarios {
			p := w.path(ScenarioDir, scenarioFile(s.Index))
			if err := WriteRosterCSV(p, s.Assignment); err != nil {
				return nil, err
			}
			paths = append(paths, p)
		}
	}
	w.log.Info().Str("dir", w.Dir).Int("files", len(paths)).Msg("wrote scenarios")
	return paths, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V(model.FileKey, path))
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode report", goerr.V(model.FileKey, path))
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return goerr.Wrap(err, "failed to write report", goerr.V(model.FileKey, path))
	}
	return nil
}
