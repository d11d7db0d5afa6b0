package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mauv0809/wicketkeeper/internal/config"
	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/http/handlers"
	"github.com/mauv0809/wicketkeeper/internal/metrics"
	"github.com/mauv0809/wicketkeeper/internal/notifier"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
)

func NewServer(db handlers.Pinger, store tournament.Store, fixtures fixture.Service, metricsHandler http.Handler, counters metrics.MetricsStore, cfg config.Config, notifier notifier.Notifier, processor handlers.EventProcessor) *Server {
	server := &Server{
		DB:             db,
		Store:          store,
		Fixtures:       fixtures,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         chi.NewRouter(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.Cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", s.MetricsHandler)

	r.Group(func(r chi.Router) {
		r.Use(paramsMiddleware)
		r.Get("/health", handlers.HealthCheckHandler(s.DB))
		r.Get("/stats", handlers.StatsHandler(s.Counters))

		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			r.Route("/fixture-versions", func(r chi.Router) {
				r.Post("/", handlers.CreateDraftHandler(s.Fixtures, s.Processor))
				r.Get("/", handlers.ListVersionsHandler(s.Fixtures))
				r.Get("/active", handlers.ActiveVersionHandler(s.Fixtures))
				r.Get("/{versionID}", handlers.GetVersionHandler(s.Fixtures))
				r.Get("/{versionID}/matches", handlers.ListVersionMatchesHandler(s.Fixtures))
				r.Post("/{versionID}/matches", handlers.AttachMatchHandler(s.Fixtures))
				r.Post("/{versionID}/publish", handlers.PublishHandler(s.Fixtures, s.Processor))
			})
			r.Post("/fixture-rounds", handlers.CreateRoundHandler(s.Fixtures, s.Processor))
			r.Get("/fixture-rounds", handlers.ListRoundsHandler(s.Fixtures))
			r.Post("/fixture-conflicts", handlers.ValidateConflictsHandler(s.Fixtures))
			r.Get("/fixture-changes", handlers.ListChangesHandler(s.Fixtures))
			r.Put("/matches/{matchID}/schedule", handlers.RescheduleMatchHandler(s.Fixtures, s.Store))
		})

		r.With(slackVerificationMiddleware(s.Cfg.Slack.SigningSecret)).
			Post("/slack/command/fixtures", handlers.FixturesCommandHandler(s.Store, s.Fixtures, s.Notifier))
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
