package data

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// ProjectionPage is one FantasyPros projections page.
type ProjectionPage struct {
	Position model.Position
	Path     string
	Query    url.Values
}

// DefaultProjectionPages pulls standard QB projections and HALF-PPR RB/WR/TE.
var DefaultProjectionPages = []ProjectionPage{
	{Position: model.PositionQB, Path: "/nfl/projections/qb.php", Query: url.Values{"week": {"draft"}}},
	{Position: model.PositionRB, Path: "/nfl/projections/rb.php", Query: url.Values{"week": {"draft"}, "scoring": {"HALF"}}},
	{Position: model.PositionWR, Path: "/nfl/projections/wr.php", Query: url.Values{"week": {"draft"}, "scoring": {"HALF"}}},
	{Position: model.PositionTE, Path: "/nfl/projections/te.php", Query: url.Values{"week": {"draft"}, "scoring": {"HALF"}}},
}

// Projection is one per-game projection row as written to the rankings CSV.
type Projection struct {
	Player  string         `json:"player"`
	Team    string         `json:"team"`
	ProjPts float64        `json:"proj_pts"`
	Pos     model.Position `json:"pos"`
}

// FantasyProsClient downloads season projections and converts them to
// per-game points.
type FantasyProsClient struct {
	BaseURL   string
	HTTP      *http.Client
	UserAgent string
	Pages     []ProjectionPage
	// Retries is the number of extra attempts per page. The wait before
	// attempt n+1 is Backoff * 1.5^n.
	Retries int
	Backoff time.Duration
	Log     zerolog.Logger
}

// NewFantasyProsClient creates a client. If baseURL is empty, defaults to
// "https://www.fantasypros.com".
func NewFantasyProsClient(baseURL string, log zerolog.Logger) *FantasyProsClient {
	if baseURL == "" {
		baseURL = "https://www.fantasypros.com"
	}
	return &FantasyProsClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		UserAgent: "Mozilla/5.0 (compatible; projections-scraper/1.0)",
		Pages:     DefaultProjectionPages,
		Retries:   2,
		Backoff:   time.Second,
		Log:       log,
	}
}

var fptsAliases = []string{"fpts", "fantasy pts", "fantasypts", "points", "misc fpts", "total fpts"}

// FetchProjections fetches every configured page and divides season points by
// weeks. Rows are returned page by page in configuration order.
func (c *FantasyProsClient) FetchProjections(ctx context.Context, weeks int) ([]Projection, error) {
	if weeks <= 0 {
		return nil, goerr.Wrap(model.ErrInvalidConfiguration, "weeks must be > 0", goerr.V(model.ValueKey, weeks))
	}
	var out []Projection
	for _, page := range c.Pages {
		c.Log.Info().Str("pos", string(page.Position)).Str("path", page.Path).Msg("fetching projections")
		rows, err := c.fetchPosition(ctx, page, weeks)
		if err != nil {
			return nil, err
		}
		c.Log.Info().Str("pos", string(page.Position)).Int("rows", len(rows)).Msg("fetched projections")
		out = append(out, rows...)
	}
	return out, nil
}

func (c *FantasyProsClient) pageURL(page ProjectionPage, extra url.Values) string {
	q := url.Values{}
	for k, v := range page.Query {
		q[k] = append([]string(nil), v...)
	}
	for k, v := range extra {
		q[k] = v
	}
	return c.BaseURL + page.Path + "?" + q.Encode()
}

func (c *FantasyProsClient) fetchPosition(ctx context.Context, page ProjectionPage, weeks int) ([]Projection, error) {
	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		rows, err := c.fetchOnce(ctx, page, weeks)
		if err == nil {
			return rows, nil
		}
		lastErr = err
		if attempt == c.Retries {
			break
		}
		wait := time.Duration(float64(c.Backoff) * math.Pow(1.5, float64(attempt)))
		c.Log.Warn().Err(err).Str("pos", string(page.Position)).Int("attempt", attempt+1).Dur("wait", wait).Msg("retrying")
		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(ctx.Err(), "fetch cancelled", goerr.V(model.PositionKey, page.Position))
		case <-time.After(wait):
		}
	}
	return nil, goerr.Wrap(model.ErrFetchFailed, "failed to fetch projections",
		goerr.V(model.PositionKey, page.Position), goerr.V(model.URLKey, c.pageURL(page, nil)), goerr.V("cause", lastErr.Error()))
}

func (c *FantasyProsClient) fetchOnce(ctx context.Context, page ProjectionPage, weeks int) ([]Projection, error) {
	records, ok, err := c.tryCSV(ctx, page)
	if err != nil {
		return nil, err
	}
	if !ok {
		records, err = c.fetchHTMLTable(ctx, page)
		if err != nil {
			return nil, err
		}
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data table found")
	}
	return extractProjections(records, page.Position, weeks)
}

func (c *FantasyProsClient) get(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

// tryCSV requests the CSV export. ok is false when the response does not
// look like a CSV with a Player header.
func (c *FantasyProsClient) tryCSV(ctx context.Context, page ProjectionPage) ([][]string, bool, error) {
	status, body, err := c.get(ctx, c.pageURL(page, url.Values{"csv": {"1"}}))
	if err != nil {
		return nil, false, err
	}
	if status != http.StatusOK {
		return nil, false, nil
	}
	text := strings.TrimSpace(string(body))
	first, _, _ := strings.Cut(text, "\n")
	if !strings.Contains(first, "Player") {
		return nil, false, nil
	}
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, false, nil
	}
	return records, true, nil
}

func (c *FantasyProsClient) fetchHTMLTable(ctx context.Context, page ProjectionPage) ([][]string, error) {
	status, body, err := c.get(ctx, c.pageURL(page, nil))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("GET %s failed: %d", page.Path, status)
	}
	tables, err := parseHTMLTables(body)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if len(t) == 0 {
			continue
		}
		header := lowerAll(t[0])
		if findColumn(header, []string{"player"}) >= 0 && findColumn(header, fptsAliases) >= 0 {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no projection table in page")
}

// parseHTMLTables flattens every <table> into records. The last header row
// wins, which drops the grouping row above multi-level headers.
func parseHTMLTables(body []byte) ([][][]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var tables [][][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, tableRecords(n))
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)
	return tables, nil
}

func tableRecords(table *html.Node) [][]string {
	var header []string
	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			allTH := true
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				if ch.Type != html.ElementNode || (ch.Data != "td" && ch.Data != "th") {
					continue
				}
				if ch.Data == "td" {
					allTH = false
				}
				cells = append(cells, nodeText(ch))
			}
			if len(cells) == 0 {
				return
			}
			if allTH {
				header = cells
			} else {
				rows = append(rows, cells)
			}
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(table)
	if header == nil {
		return rows
	}
	return append([][]string{header}, rows...)
}

func nodeText(n *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// extractProjections keeps player, team and season points, then converts to
// per-game points rounded to two decimals.
func extractProjections(records [][]string, pos model.Position, weeks int) ([]Projection, error) {
	header := lowerAll(records[0])
	playerCol := findColumn(header, []string{"player", "name"})
	if playerCol < 0 {
		return nil, fmt.Errorf("could not find 'player' column in downloaded table")
	}
	teamCol := findColumn(header, teamAliases)
	fptsCol := findColumn(header, fptsAliases)
	if fptsCol < 0 {
		return nil, fmt.Errorf("could not find 'FPTS' (season total) in downloaded table")
	}

	var out []Projection
	for _, rec := range records[1:] {
		player := cell(rec, playerCol)
		team := cell(rec, teamCol)
		if teamCol < 0 {
			player, team = SplitTeam(player)
		}
		fpts, ok, err := ParseNumber(cell(rec, fptsCol))
		if player == "" || err != nil || !ok {
			continue
		}
		out = append(out, Projection{
			Player:  player,
			Team:    team,
			ProjPts: math.Round(fpts/float64(weeks)*100) / 100,
			Pos:     pos,
		})
	}
	return out, nil
}

// DefaultProjectionsPath is dir/fp_rankings_MMDDYYYY.csv.
func DefaultProjectionsPath(dir string, now time.Time) string {
	return filepath.Join(dir, "fp_rankings_"+now.Format("01022006")+".csv")
}

// WriteProjectionsCSV writes player,team,proj_pts,pos, the projections input
// format the loader reads.
func WriteProjectionsCSV(path string, rows []Projection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create directory", goerr.V(model.FileKey, path))
	}
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create file", goerr.V(model.FileKey, path))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"player", "team", "proj_pts", "pos"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Player, r.Team, strconv.FormatFloat(r.ProjPts, 'f', 2, 64), string(r.Pos)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
