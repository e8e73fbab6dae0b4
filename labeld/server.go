package labeld

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"

	"github.com/andareed/siftly-labeler/labelapi"
)

// DefaultWindow is the unlabeled window size when the request names none.
const DefaultWindow = 200

type Server struct {
	store   *Store
	log     *slog.Logger
	metrics *Metrics
	reg     *prometheus.Registry
	echo    *echo.Echo
}

func NewServer(store *Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		store:   store,
		log:     log,
		metrics: NewMetrics(reg),
		reg:     reg,
	}
	s.echo = s.setupEcho()
	return s
}

// Handler exposes the routes, mostly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(otelecho.Middleware("labeld"))
	e.Use(slogecho.New(s.log))

	e.POST(labelapi.PathIngest, s.ingest)
	e.GET(labelapi.PathUnlabeled, s.unlabeled)
	e.POST(labelapi.PathLabel, s.label)
	e.POST(labelapi.PathBatch, s.batchLabel)
	e.GET(labelapi.PathExport, s.export)
	e.GET(labelapi.PathHealth, func(c echo.Context) error {
		return c.JSON(http.StatusOK, labelapi.StatusResponse{Status: "ok"})
	})
	e.GET(labelapi.PathMetrics, echo.WrapHandler(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))
	return e
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("labeld listening", "addr", addr)
		err := s.echo.Start(addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) reject(c echo.Context, endpoint, msg string) error {
	s.metrics.Rejected.WithLabelValues(endpoint).Inc()
	return c.JSON(http.StatusBadRequest, labelapi.StatusResponse{Error: msg})
}

func (s *Server) fail(c echo.Context, msg string, err error) error {
	s.log.ErrorContext(c.Request().Context(), msg, "err", err)
	return c.JSON(http.StatusInternalServerError, labelapi.StatusResponse{Error: err.Error()})
}

type ingestBody struct {
	Timestamp *string  `json:"timestamp"`
	AX        *float64 `json:"ax"`
	AY        *float64 `json:"ay"`
	AZ        *float64 `json:"az"`
	GX        *float64 `json:"gx"`
	GY        *float64 `json:"gy"`
	GZ        *float64 `json:"gz"`
	Pulse     *float64 `json:"pulse"`
}

func (b ingestBody) reading() (labelapi.Reading, bool) {
	if b.Timestamp == nil || b.AX == nil || b.AY == nil || b.AZ == nil ||
		b.GX == nil || b.GY == nil || b.GZ == nil || b.Pulse == nil {
		return labelapi.Reading{}, false
	}
	return labelapi.Reading{
		Timestamp: *b.Timestamp,
		AX:        *b.AX, AY: *b.AY, AZ: *b.AZ,
		GX: *b.GX, GY: *b.GY, GZ: *b.GZ,
		Pulse: *b.Pulse,
	}, true
}

func (s *Server) ingest(c echo.Context) error {
	var body ingestBody
	if err := c.Bind(&body); err != nil {
		return s.reject(c, "ingest", "Invalid JSON data")
	}
	r, ok := body.reading()
	if !ok {
		return s.reject(c, "ingest", "Missing required fields")
	}
	if !r.Validate() {
		return s.reject(c, "ingest", "Sensor data out of range")
	}
	if _, err := s.store.Insert(c.Request().Context(), r); err != nil {
		return s.fail(c, "ingest failed", err)
	}
	s.metrics.Ingested.Inc()
	return c.JSON(http.StatusCreated, labelapi.StatusResponse{Status: "success"})
}

func (s *Server) unlabeled(c echo.Context) error {
	limit := DefaultWindow
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return s.reject(c, "get_unlabeled", "Limit must be a positive integer")
		}
		limit = n
	}
	recs, err := s.store.Unlabeled(c.Request().Context(), limit)
	if err != nil {
		return s.fail(c, "unlabeled query failed", err)
	}
	if recs == nil {
		recs = []labelapi.Record{}
	}
	s.metrics.WindowSize.Observe(float64(len(recs)))
	return c.JSON(http.StatusOK, labelapi.UnlabeledResponse{SensorData: recs})
}

type labelBody struct {
	ID    *int64 `json:"id"`
	Label *int   `json:"label"`
}

func validLabel(l int) bool { return l == 0 || l == 1 }

func (s *Server) label(c echo.Context) error {
	var body labelBody
	if err := c.Bind(&body); err != nil || body.ID == nil || body.Label == nil {
		return s.reject(c, "label_data", "Invalid request data")
	}
	if !validLabel(*body.Label) {
		return s.reject(c, "label_data", "Invalid label")
	}
	err := s.store.SetLabel(c.Request().Context(), *body.ID, *body.Label)
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, labelapi.StatusResponse{Error: err.Error()})
	}
	if err != nil {
		return s.fail(c, "label failed", err)
	}
	s.metrics.labeled(*body.Label, 1)
	return c.JSON(http.StatusOK, labelapi.StatusResponse{Status: "success"})
}

type batchBody struct {
	IDs   []int64 `json:"ids"`
	Label *int    `json:"label"`
}

func (s *Server) batchLabel(c echo.Context) error {
	var body batchBody
	if err := c.Bind(&body); err != nil || len(body.IDs) == 0 || body.Label == nil {
		return s.reject(c, "batch_label", "Invalid request data")
	}
	if !validLabel(*body.Label) {
		return s.reject(c, "batch_label", "Invalid label")
	}
	n, err := s.store.BatchLabel(c.Request().Context(), body.IDs, *body.Label)
	if err != nil {
		return s.fail(c, "batch label failed", err)
	}
	s.metrics.labeled(*body.Label, n)
	s.log.DebugContext(c.Request().Context(), "batch labeled", "requested", len(body.IDs), "changed", n, "label", *body.Label)
	return c.JSON(http.StatusOK, labelapi.StatusResponse{Status: "success"})
}

func (s *Server) export(c echo.Context) error {
	recs, err := s.store.All(c.Request().Context())
	if err != nil {
		return s.fail(c, "export failed", err)
	}
	if recs == nil {
		recs = []labelapi.Record{}
	}
	return c.JSON(http.StatusOK, labelapi.ExportResponse{AllData: recs})
}
