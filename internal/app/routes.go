package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vancomm/sweeper/internal/handlers"
	"github.com/vancomm/sweeper/internal/middleware"
)

// createRand seeds a fresh generator per call; *rand.Rand is not safe to
// share between requests.
func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	params := handlers.GameHandlerParams{
		Log:       a.log,
		Store:     a.store,
		Tokens:    a.tokens,
		Metrics:   a.metrics,
		NewRand:   createRand,
		Defaults:  a.cfg.Game,
		Placement: a.cfg.Placement(),
	}
	if j := a.journal(); j != nil {
		params.Journal = j
	}
	game := handlers.NewGameHandler(params)
	ws := handlers.NewWSHandler(game, handlers.NewUpgrader(a.cfg.AllowedOrigins))
	auth := middleware.SessionToken(a.log, a.tokens)

	a.router.Use(
		middleware.Logging(a.log),
		middleware.Cors(a.cfg.AllowedOrigins),
	)

	a.router.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	a.router.Route(a.cfg.BasePath+"/v1", func(r chi.Router) {
		r.Get("/status", handlers.HandleStatus)
		r.Get("/outcomes", game.Outcomes)

		r.Post("/game", game.NewGame)
		r.Get("/game/{id}", game.Fetch)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/game/{id}/reveal", game.Reveal)
			r.Post("/game/{id}/flag", game.Flag)
			r.Post("/game/{id}/restart", game.Restart)
			r.Delete("/game/{id}", game.Delete)
			r.Get("/game/{id}/connect", ws.Connect)
		})
	})
}
