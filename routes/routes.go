package routes

import (
	"log/slog"
	"net/http"

	"github.com/gnbf/badminton-registry/handlers"
	"github.com/gnbf/badminton-registry/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	System     *handlers.SystemHandler
	Auth       *handlers.AuthHandler
	Club       *handlers.ClubHandler
	Player     *handlers.PlayerHandler
	Coach      *handlers.CoachHandler
	Official   *handlers.OfficialHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	Ranking    *handlers.RankingHandler
	Report     *handlers.ReportHandler
	Live       *handlers.LiveHandler
	User       *handlers.UserHandler
}

type Options struct {
	Tokens         middleware.TokenParser
	Metrics        *middleware.Metrics
	Logger         *slog.Logger
	AllowedOrigins []string
	Docs           bool
}

func SetupRoutes(r chi.Router, h Handlers, opts Options) {
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.OptionalAuth(opts.Tokens))

	writer := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.Tokens))
		r.Use(middleware.RequireWriter)
	}
	admin := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.Tokens))
		r.Use(middleware.RequireAdmin)
	}

	r.Get("/", h.System.Root)
	r.Get("/health", h.System.Health)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	if opts.Docs {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)
		r.With(middleware.Authenticate(opts.Tokens)).Get("/verify", h.Auth.Verify)
		r.With(middleware.Authenticate(opts.Tokens)).Post("/change-password", h.Auth.ChangePassword)
		r.Post("/password/forgot", h.Auth.ForgotPassword)
		r.Post("/password/reset", h.Auth.ResetPassword)
	})

	r.Route("/clubs", func(r chi.Router) {
		r.Get("/", h.Club.List)
		r.Get("/{slug}", h.Club.Get)
		r.Get("/{slug}/players", h.Club.ListPlayers)

		r.Group(func(r chi.Router) {
			writer(r)
			r.Post("/", h.Club.Create)
			r.Put("/{id}", h.Club.Update)
			r.Delete("/{id}", h.Club.Delete)
			r.Post("/{id}/logo", h.Club.UploadLogo)
		})
	})

	r.Route("/players", func(r chi.Router) {
		r.Get("/", h.Player.List)
		r.Get("/gender/{gender}", h.Player.ListByGender)
		r.Get("/{slug}", h.Player.Get)
		r.Get("/{slug}/stats", h.Player.Stats)
		r.Get("/{slug}/match-history", h.Player.MatchHistory)
		r.Get("/{slug}/tournament-history", h.Player.TournamentHistory)

		r.Group(func(r chi.Router) {
			writer(r)
			r.Post("/", h.Player.Create)
			r.Put("/{id}", h.Player.Update)
			r.Delete("/{id}", h.Player.Delete)
			r.Post("/{id}/photo", h.Player.UploadPhoto)
		})
	})

	r.Route("/coaches", func(r chi.Router) {
		r.Get("/", h.Coach.List)
		r.Get("/{slug}", h.Coach.Get)
		r.Get("/{slug}/stats", h.Report.CoachStats)

		r.Group(func(r chi.Router) {
			writer(r)
			r.Post("/", h.Coach.Create)
			r.Put("/{id}", h.Coach.Update)
			r.Delete("/{id}", h.Coach.Delete)
		})
	})

	r.Route("/officials", func(r chi.Router) {
		r.Get("/umpires/{slug}/stats", h.Official.UmpireStats)
		r.Get("/{kind}", h.Official.List)
		r.Get("/{kind}/{slug}", h.Official.Get)

		r.Group(func(r chi.Router) {
			writer(r)
			r.Post("/{kind}", h.Official.Create)
			r.Put("/{kind}/{id}", h.Official.Update)
			r.Delete("/{kind}/{id}", h.Official.Delete)
		})
	})

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/search", h.Tournament.Search)
		r.Get("/winners", h.Tournament.ListWinners)
		r.Get("/{slug}", h.Tournament.Get)
		r.Get("/{slug}/matches", h.Tournament.ListMatches)
		r.Get("/{slug}/players", h.Tournament.ListPlayers)
		r.Get("/{slug}/stats", h.Report.TournamentStats)
		r.Get("/{slug}/standings", h.Report.Standings)
		r.Get("/{slug}/teams", h.Report.Teams)

		r.Group(func(r chi.Router) {
			writer(r)
			r.Post("/", h.Tournament.Create)
			r.Put("/{id}", h.Tournament.Update)
			r.Patch("/{id}", h.Tournament.Update)
			r.Delete("/{id}", h.Tournament.Delete)
			r.Post("/{id}/logo", h.Tournament.UploadLogo)
			r.Post("/{id}/entries", h.Tournament.AddEntry)
			r.Delete("/{id}/entries/{entryID}", h.Tournament.DeleteEntry)
			r.Post("/{id}/lineups", h.Tournament.AddLineup)
			r.Put("/{id}/winners", h.Tournament.SetWinners)
		})
	})

	r.Route("/matches", func(r chi.Router) {
		r.Get("/ties/{id}", h.Match.GetTie)
		r.Get("/individual/{id}", h.Match.GetMatch)
		r.Get("/category/{category}", h.Match.ListByCategory)
		r.Get("/recent", h.Match.ListRecent)
		r.Get("/stats/player/{id}", h.Match.PlayerStats)
		r.Get("/stats/head-to-head", h.Match.HeadToHead)

		r.Group(func(r chi.Router) {
			writer(r)
			r.Post("/ties", h.Match.CreateTie)
			r.Post("/individual", h.Match.CreateMatch)
		})
	})

	r.Route("/rankings", func(r chi.Router) {
		r.Get("/category/{category}", h.Ranking.ByCategory)
		r.Get("/global", h.Ranking.Global)
		r.Get("/player/{slug}", h.Ranking.ForPlayer)
		r.Get("/player/{slug}/history", h.Ranking.History)
		r.Get("/tournament/{slug}", h.Ranking.ForTournament)
		r.Get("/top-players", h.Ranking.TopPlayers)

		r.Group(func(r chi.Router) {
			admin(r)
			r.Post("/calculate/{tournamentID}", h.Ranking.Calculate)
			r.Post("/recalculate", h.Ranking.Recalculate)
		})
	})

	if h.User != nil {
		r.Route("/admin", func(r chi.Router) {
			admin(r)
			r.Get("/stats", h.User.Stats)
			r.Get("/users", h.User.List)
			r.Patch("/users/{id}/role", h.User.ChangeRole)
			r.Delete("/users/{id}", h.User.Delete)
		})
	}

	if h.Live != nil {
		r.Get("/ws/tournaments/{slug}", h.Live.ServeTournament)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"the requested resource could not be found"}` + "\n"))
	})
}
