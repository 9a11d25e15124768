package app

import (
	"github.com/sweepmind/minesweeper-agent/internal/handlers"
)

func (a *App) loadRoutes() {
	auth := handlers.NewAuth(a.logger, a.db, a.cookies, a.jwt)
	runs := handlers.NewRunHandler(a.logger, a.db)
	watch := handlers.NewWatchHandler(a.logger, a.ws)

	a.router.HandleFunc("GET /status", auth.Status)
	a.router.HandleFunc("POST /register", auth.Register)
	a.router.HandleFunc("POST /login", auth.Login)
	a.router.HandleFunc("POST /logout", auth.Logout)

	a.router.HandleFunc("POST /runs", runs.Submit)
	a.router.HandleFunc("GET /runs/{id}", runs.Fetch)
	a.router.HandleFunc("GET /leaderboard", runs.Leaderboard)

	a.router.HandleFunc("/watch", watch.Watch)
}
