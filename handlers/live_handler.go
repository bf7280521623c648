package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gnbf/badminton-registry/live"
	"github.com/gnbf/badminton-registry/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type LiveHandler struct {
	hub               *live.Hub
	tournamentService services.TournamentService
	upgrader          websocket.Upgrader
}

// NewLiveHandler accepts websocket origins from allowedOrigins; "*" allows any.
func NewLiveHandler(hub *live.Hub, ts services.TournamentService, allowedOrigins []string) *LiveHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return &LiveHandler{
		hub:               hub,
		tournamentService: ts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// ServeTournament godoc
// @Summary Live feed of one tournament
// @Description Websocket. Frames carry tournament.updated, tournament.winners and rankings.calculated events.
// @Tags tournaments
// @Param slug path string true "Tournament slug"
// @Failure 404 {object} map[string]string
// @Router /ws/tournaments/{slug} [get]
func (h *LiveHandler) ServeTournament(w http.ResponseWriter, r *http.Request) {
	detail, err := h.tournamentService.GetDetail(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		slog.WarnContext(r.Context(), "websocket upgrade failed", slog.String("room", detail.Slug), slog.Any("error", err))
		return
	}
	h.hub.Serve(conn, detail.Slug)
}
