package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/analysis"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/m-mizutani/goerr/v2"
)

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V(model.FileKey, path))
	}
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create report", goerr.V(model.FileKey, path))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteMarketCSV writes one row per player in market order. Missing source
// values are left empty.
func WriteMarketCSV(path string, players []model.Player) error {
	header := []string{
		"rank",
		"player_id",
		"name",
		"team",
		"position",
		"projection",
		"auction",
		"adp",
		"risk",
		"consensus",
		"price",
	}
	rows := make([][]string, 0, len(players))
	for i, p := range players {
		risk := ""
		if p.Risk != nil {
			risk = fmtFloat(*p.Risk)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.ID,
			p.Name,
			p.Team,
			string(p.Position),
			sourceCell(p, model.SourceProjection),
			sourceCell(p, model.SourceAuction),
			sourceCell(p, model.SourceADP),
			risk,
			fmtFloat(p.Consensus),
			fmtFloat(p.Price),
		})
	}
	return writeCSV(path, header, rows)
}

// WriteRosterCSV writes the picks of an assignment in slot order.
func WriteRosterCSV(path string, a *model.RosterAssignment) error {
	header := []string{
		"slot",
		"seat",
		"player_id",
		"name",
		"team",
		"position",
		"consensus",
		"amount",
	}
	rows := make([][]string, 0, len(a.Picks))
	for _, pk := range a.Picks {
		rows = append(rows, []string{
			pk.Slot,
			strconv.Itoa(pk.Seat),
			pk.Player.ID,
			pk.Player.Name,
			pk.Player.Team,
			string(pk.Player.Position),
			fmtFloat(pk.Player.Consensus),
			fmtFloat(pk.Amount),
		})
	}
	return writeCSV(path, header, rows)
}

// WriteFrequencyCSV writes scenario pick frequencies.
func WriteFrequencyCSV(path string, freq []analysis.Frequency) error {
	header := []string{"player_id", "name", "position", "count", "rate"}
	rows := make([][]string, 0, len(freq))
	for _, f := range freq {
		rows = append(rows, []string{
			f.PlayerID,
			f.Name,
			f.Position,
			strconv.Itoa(f.Count),
			fmtFloat(f.Rate),
		})
	}
	return writeCSV(path, header, rows)
}

func scenarioFile(index int) string {
	return fmt.Sprintf("scenario_%04d.csv", index+1)
}

func sourceCell(p model.Player, src model.SourceName) string {
	v, ok := p.Value(src)
	if !ok {
		return ""
	}
	return fmtFloat(v)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
