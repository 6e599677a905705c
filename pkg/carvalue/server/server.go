package server

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/encoder"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/estimator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Options are the collaborators the server renders results from
type Options struct {
	Encoder     *encoder.Encoder
	Estimator   *estimator.Estimator
	DatasetPath string
	Logger      *slog.Logger
}

// NewHTTPServer returns a new HTTP server
func NewHTTPServer(addr string, opts Options) *http.Server {
	server := newHTTPServer(opts)
	return &http.Server{
		Addr:              addr,
		Handler:           server.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

type httpServer struct {
	log         *slog.Logger
	encoder     *encoder.Encoder
	estimator   *estimator.Estimator
	datasetPath string
	metrics     *metrics
	now         func() time.Time
}

func newHTTPServer(opts Options) *httpServer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &httpServer{
		log:         log,
		encoder:     opts.Encoder,
		estimator:   opts.Estimator,
		datasetPath: opts.DatasetPath,
		metrics:     newMetrics(opts.Estimator),
		now:         time.Now,
	}
}

func (h *httpServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(h.log))
	r.HandleFunc("/", h.GetForm).Methods(http.MethodGet)
	r.HandleFunc("/predict", h.PostPredict).Methods(http.MethodPost)
	r.HandleFunc("/report", h.GetReport).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.GetHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(h.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

type metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	latency     prometheus.Histogram
}

func newMetrics(est *estimator.Estimator) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "carvalue",
				Name:      "predictions_total",
				Help:      "Prediction requests by outcome.",
			},
			[]string{"outcome"},
		),
		latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "carvalue",
				Name:      "prediction_duration_seconds",
				Help:      "Time spent encoding and estimating, including the first model load.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	m.registry.MustRegister(m.predictions, m.latency)
	if est != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "carvalue",
				Name:      "model_loaded",
				Help:      "1 once the model artifact has been read into memory.",
			},
			func() float64 {
				if est.Loaded() {
					return 1
				}
				return 0
			},
		))
	}
	return m
}
