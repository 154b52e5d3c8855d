package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.uber.org/zap"

	"github.com/david/uni-finder/internal/config"
	"github.com/david/uni-finder/internal/ingest"
	"github.com/david/uni-finder/internal/logging"
	"github.com/david/uni-finder/internal/models"
	"github.com/david/uni-finder/internal/query"
)

var matchColors = text.Colors{text.FgHiYellow, text.Bold}

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	source := flag.String("source", "", "Dataset file or URL (defaults to config)")
	q := flag.String("q", "", "Search term")
	country := flag.String("country", "", "Country filter")
	rankMin := flag.Int("rank-min", 0, "Minimum rank (0 = dataset minimum)")
	rankMax := flag.Int("rank-max", 0, "Maximum rank (0 = dataset maximum)")
	advanced := flag.Bool("advanced", false, "Apply the acceptance-rate range")
	rateMin := flag.Float64("rate-min", -1, "Minimum acceptance rate (-1 = dataset minimum)")
	rateMax := flag.Float64("rate-max", -1, "Maximum acceptance rate (-1 = dataset maximum)")
	sortCol := flag.String("sort", string(query.ColumnRank), "Sort column")
	dir := flag.String("dir", string(query.Ascending), "Sort direction: asc, desc or none")
	page := flag.Int("page", 1, "Page number")
	pageSize := flag.Int("page-size", 0, "Rows per page (defaults to config)")
	interactive := flag.Bool("interactive", false, "Read search terms from stdin")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	// Keep stdout for the table.
	logger := logging.Must("warn")
	defer logger.Sync()

	if *source == "" {
		*source = cfg.Dataset.Source
	}
	cat := ingest.Load(context.Background(), *source, ingest.NewHTTPFetcher(cfg.Fetch()), logger)

	if !query.IsSortable(query.Column(*sortCol)) {
		logger.Fatal("unknown sort column", zap.String("sort", *sortCol), zap.Any("columns", query.Columns()))
	}
	direction, err := query.ParseDirection(*dir)
	if err != nil {
		logger.Fatal("bad sort direction", zap.String("dir", *dir), zap.Error(err))
	}

	state := query.NewState(cat.Universities).
		WithSearch(*q).
		WithCountry(*country).
		WithSort(query.SortSpec{Column: query.Column(*sortCol), Direction: direction})

	lo, hi := state.Criteria.RankMin, state.Criteria.RankMax
	if *rankMin > 0 {
		lo = *rankMin
	}
	if *rankMax > 0 {
		hi = *rankMax
	}
	state = state.WithRankRange(lo, hi)

	rlo, rhi := state.Criteria.RateMin, state.Criteria.RateMax
	if *rateMin >= 0 {
		rlo = *rateMin
	}
	if *rateMax >= 0 {
		rhi = *rateMax
	}
	state = state.WithRateRange(rlo, rhi).WithAdvanced(*advanced)

	size := cfg.Query.PageSize
	if *pageSize > 0 {
		size = *pageSize
	}
	state = state.WithPageSize(size).WithPage(*page)

	if !*interactive {
		render(os.Stdout, cat, state)
		return
	}
	runInteractive(os.Stdin, os.Stdout, cat, state, query.NewDebouncer(cfg.Debounce()))
}

// runInteractive treats each input line as a new search term. Lines starting
// with ":" are commands: ":next", ":prev", ":page N", ":sort COLUMN".
func runInteractive(in io.Reader, out io.Writer, cat *ingest.Catalog, state query.State, d *query.Debouncer) {
	var mu sync.Mutex
	show := func(s query.State) {
		mu.Lock()
		defer mu.Unlock()
		render(out, cat, s)
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		next, ok := apply(state, line)
		if !ok {
			fmt.Fprintf(out, "unrecognized command %q\n", line)
			continue
		}
		state = next
		snapshot := state
		d.Trigger(func() { show(snapshot) })
	}

	// Input closed: drop the pending render and show the final state once.
	d.Stop()
	show(state)
}

func apply(s query.State, line string) (query.State, bool) {
	if !strings.HasPrefix(line, ":") {
		return s.WithSearch(line), true
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":next":
		return s.WithPage(s.Page + 1), true
	case ":prev":
		return s.WithPage(s.Page - 1), true
	case ":page":
		if len(fields) == 2 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				return s.WithPage(n), true
			}
		}
	case ":sort":
		if len(fields) == 2 && query.IsSortable(query.Column(fields[1])) {
			return s.WithSortColumn(query.Column(fields[1])), true
		}
	}
	return s, false
}

func render(out io.Writer, cat *ingest.Catalog, s query.State) {
	p := s.Execute(cat.Universities)
	term := strings.TrimSpace(s.Criteria.SearchTerm)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Rank", "Name", "City / Country", "Ranking", "Acceptance", "Deadline", "Status"})
	for _, u := range p.Items {
		t.AppendRow(table.Row{
			u.Rank,
			mark(u.Name, term),
			mark(u.CityCountry, term),
			mark(u.Ranking.Display, term),
			u.AcceptanceRate.Display,
			deadline(u),
			ingest.ComputeStatusDecision(u, now()).Status,
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("page %d/%d", p.Number, p.TotalPages), fmt.Sprintf("%d matches", p.Total), "", "", "", ""})
	if cat.Metadata.RankingNote != "" {
		t.SetCaption("%s (generated %s)", cat.Metadata.RankingNote, cat.Metadata.GeneratedOn)
	}
	t.Render()
}

var now = time.Now

func mark(s, term string) string {
	var b strings.Builder
	for _, seg := range query.Highlight(s, term) {
		if seg.Matched {
			b.WriteString(matchColors.Sprint(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func deadline(u models.University) string {
	if u.AppDeadline.Formatted != "" {
		return u.AppDeadline.Formatted
	}
	return "N/A"
}
