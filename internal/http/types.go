package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/wicketkeeper/internal/config"
	"github.com/mauv0809/wicketkeeper/internal/fixture"
	"github.com/mauv0809/wicketkeeper/internal/http/handlers"
	"github.com/mauv0809/wicketkeeper/internal/metrics"
	"github.com/mauv0809/wicketkeeper/internal/notifier"
	"github.com/mauv0809/wicketkeeper/internal/tournament"
)

type Server struct {
	DB             handlers.Pinger
	Store          tournament.Store
	Fixtures       fixture.Service
	MetricsHandler http.Handler
	Counters       metrics.MetricsStore
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      handlers.EventProcessor
	Router         *chi.Mux
}
