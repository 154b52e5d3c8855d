package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/david/uni-finder/internal/ingest"
	"github.com/david/uni-finder/internal/metrics"
	"github.com/david/uni-finder/internal/models"
	"github.com/david/uni-finder/internal/query"
)

const maxPageSize = 100

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	PageSize    int
	CORSOrigins []string
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

// Server serves the read-only university collection. The catalog is loaded
// once and never modified, so handlers share it without locking.
type Server struct {
	Echo    *echo.Echo
	Catalog *ingest.Catalog

	logger   *zap.Logger
	metrics  *metrics.Metrics
	pageSize int
	byID     map[uuid.UUID]int
	defaults query.Criteria
	now      func() time.Time
}

func NewServer(cat *ingest.Catalog, opts Options) *Server {
	if cat == nil {
		cat = ingest.EmptyCatalog()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.PageSize <= 0 || opts.PageSize > maxPageSize {
		opts.PageSize = query.DefaultPageSize
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				opts.Logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			opts.Logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from config or default to localhost
	allowedOrigins := opts.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:4200"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s := &Server{
		Echo:     e,
		Catalog:  cat,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		pageSize: opts.PageSize,
		byID:     make(map[uuid.UUID]int, len(cat.Universities)),
		defaults: query.DefaultCriteria(cat.Universities),
		now:      time.Now,
	}
	for i, u := range cat.Universities {
		s.byID[u.ID] = i
	}
	s.metrics.SetDataset(len(cat.Universities), cat.Dropped)

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	s.Echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	api := s.Echo.Group("/api/v1")
	api.GET("/metadata", s.handleGetMetadata)
	api.GET("/universities", s.handleListUniversities)
	api.GET("/universities/:id", s.handleGetUniversity)
	api.GET("/countries", s.handleGetCountries)
	api.GET("/stats", s.handleGetStats)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleGetMetadata(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Catalog.Metadata)
}

type listResponse struct {
	Universities []models.University   `json:"universities"`
	Total        int                   `json:"total"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	Highlights   map[string]highlights `json:"highlights,omitempty"`
}

func (s *Server) handleListUniversities(c echo.Context) error {
	started := time.Now()

	state, err := s.stateFromQuery(c)
	if err != nil {
		s.logger.Debug("rejected list query", zap.String("query", c.QueryString()), zap.Error(err))
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	page := state.Execute(s.Catalog.Universities)
	resp := listResponse{
		Universities: page.Items,
		Total:        page.Total,
		Page:         page.Number,
		PageSize:     page.Size,
		TotalPages:   page.TotalPages,
	}
	if term := strings.TrimSpace(state.Criteria.SearchTerm); term != "" {
		resp.Highlights = make(map[string]highlights, len(page.Items))
		for _, u := range page.Items {
			if h := highlightUniversity(u, term); len(h) > 0 {
				resp.Highlights[u.ID.String()] = h
			}
		}
	}

	s.metrics.ObserveResults(page.Total)
	s.metrics.ObserveQuery("universities", started)
	return c.JSON(http.StatusOK, resp)
}

// stateFromQuery builds the query state from URL parameters. Malformed
// numbers are ignored and leave the default in place.
func (s *Server) stateFromQuery(c echo.Context) (query.State, error) {
	state := query.State{
		Criteria: s.defaults,
		Sort:     query.SortSpec{Column: query.ColumnRank, Direction: query.Ascending},
		Page:     1,
		PageSize: s.pageSize,
	}

	state = state.WithSearch(c.QueryParam("q")).WithCountry(strings.TrimSpace(c.QueryParam("country")))

	rankMin, rankMax := state.Criteria.RankMin, state.Criteria.RankMax
	if v, err := strconv.Atoi(c.QueryParam("rank_min")); err == nil {
		rankMin = v
	}
	if v, err := strconv.Atoi(c.QueryParam("rank_max")); err == nil {
		rankMax = v
	}
	state = state.WithRankRange(rankMin, rankMax)

	if v, err := strconv.ParseBool(c.QueryParam("advanced")); err == nil {
		state = state.WithAdvanced(v)
	}
	rateMin, rateMax := state.Criteria.RateMin, state.Criteria.RateMax
	if v, err := strconv.ParseFloat(c.QueryParam("rate_min"), 64); err == nil {
		rateMin = v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("rate_max"), 64); err == nil {
		rateMax = v
	}
	state = state.WithRateRange(rateMin, rateMax)

	if col := c.QueryParam("sort"); col != "" {
		if !query.IsSortable(query.Column(col)) {
			return state, fmt.Errorf("unknown sort column: %s", col)
		}
		dir, err := query.ParseDirection(c.QueryParam("dir"))
		if err != nil {
			return state, err
		}
		state = state.WithSort(query.SortSpec{Column: query.Column(col), Direction: dir})
	}

	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 && v <= maxPageSize {
		state = state.WithPageSize(v)
	}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		state = state.WithPage(v)
	}
	return state, nil
}

// ErrNotFound is returned for ids that are malformed or absent.
var ErrNotFound = errors.New("not found")

// University looks a record up by its id string.
func (s *Server) University(id string) (models.University, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return models.University{}, ErrNotFound
	}
	i, ok := s.byID[parsed]
	if !ok {
		return models.University{}, ErrNotFound
	}
	return s.Catalog.Universities[i], nil
}

// universityDetail adds the application window, computed at request time.
type universityDetail struct {
	models.University
	Application ingest.StatusDecision `json:"application"`
}

func (s *Server) handleGetUniversity(c echo.Context) error {
	u, err := s.University(c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, universityDetail{
		University:  u,
		Application: ingest.ComputeStatusDecision(u, s.now()),
	})
}

func (s *Server) handleGetCountries(c echo.Context) error {
	started := time.Now()
	countries := ingest.ExtractCountries(s.Catalog.Universities)
	s.metrics.ObserveQuery("countries", started)
	return c.JSON(http.StatusOK, countries)
}

type statsResponse struct {
	ingest.Summary
	Rates []float64 `json:"rates"`
}

func (s *Server) handleGetStats(c echo.Context) error {
	started := time.Now()
	resp := statsResponse{
		Summary: ingest.Summarize(s.Catalog.Universities),
		Rates:   ingest.ExtractAcceptanceRates(s.Catalog.Universities),
	}
	s.metrics.ObserveQuery("stats", started)
	return c.JSON(http.StatusOK, resp)
}
