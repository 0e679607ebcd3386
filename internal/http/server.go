package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"brandintel-backend-go/internal/config"
	"brandintel-backend-go/internal/services"
)

type Server struct {
	DB      *sqlx.DB
	Config  config.Config
	Logger  *logrus.Logger
	Fanout  services.FanoutMode
	Metrics *Metrics

	validate *validator.Validate
}

func NewServer(db *sqlx.DB, cfg config.Config, logger *logrus.Logger) (*Server, error) {
	mode, err := services.ParseFanoutMode(cfg.FanoutMode)
	if err != nil {
		return nil, err
	}
	return &Server{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Fanout:   mode,
		Metrics:  NewMetrics(db.DB),
		validate: newValidator(),
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.Metrics.Middleware)
	r.Use(RequestLogger(s.Logger))
	r.Use(middleware.Recoverer)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, services.CodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, services.CodeValidation, "Method not allowed", nil)
	})

	r.Get("/health", s.Health)
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/brands", func(brands chi.Router) {
			brands.Post("/", s.CreateBrand)
			brands.Get("/", s.ListBrands)
			brands.Get("/{brandId}", s.GetBrand)
			brands.Get("/{brandId}/signals", s.BrandSignals)
			brands.Get("/{brandId}/content", s.BrandContent)
			brands.Get("/{brandId}/snapshots", s.LatestSnapshot)
		})

		v1.Route("/signals", func(signals chi.Router) {
			signals.Post("/", s.CreateSignal)
			signals.Get("/", s.ListSignals)
		})

		v1.Route("/content", func(content chi.Router) {
			content.Post("/", s.CreateContent)
			content.Get("/{contentId}", s.GetContent)
			content.Get("/{contentId}/media", s.ContentMedia)
			content.Post("/{contentId}/metrics", s.CreateMetrics)
			content.Get("/{contentId}/metrics", s.ContentMetrics)
		})

		v1.Post("/website-snapshots", s.CreateSnapshot)
	})
	return r
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := services.CheckHealth(r.Context(), s.DB)
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, status, report)
}
