package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/scoracle-quiz/internal/api/respond"
	"github.com/albapepper/scoracle-quiz/internal/dataset"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// ListPlayers returns every qualified player.
// @Summary List players
// @Description Returns the id and name of every qualified player in the loaded dataset.
// @Tags players
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /players [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "players", h.cfg.CacheTTL, func() (interface{}, bool) {
		return map[string]interface{}{
			"stage":   h.data.Stage(),
			"count":   h.data.Len(),
			"players": h.data.Summaries(),
		}, true
	})
}

// SearchPlayers finds players by name.
// @Summary Search players
// @Description Accent- and case-insensitive substring search over player names, best Jaro-Winkler match first.
// @Tags players
// @Produce json
// @Param q query string true "Name fragment"
// @Param limit query int false "Maximum results (default 20, max 100)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /players/search [get]
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	q := dataset.Fold(r.URL.Query().Get("q"))
	if q == "" {
		respond.Error(w, r, respond.CodeMissingQuery, "q query parameter is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respond.ErrorDetail(w, r, respond.CodeInvalidLimit, "limit must be a positive integer", raw)
			return
		}
		limit = min(n, maxSearchLimit)
	}

	key := fmt.Sprintf("search:%s:%d", q, limit)
	h.serveCached(w, r, key, h.cfg.CacheTTL, func() (interface{}, bool) {
		matches := h.data.Search(q, limit)
		return map[string]interface{}{
			"query":   q,
			"count":   len(matches),
			"results": matches,
		}, true
	})
}

// GetPlayer returns one player with career records and crests.
// @Summary Get player
// @Description Returns a player's club and international records, each with its crest URL.
// @Tags players
// @Produce json
// @Param playerID path string true "Player id (page id or QID)"
// @Success 200 {object} career.Player
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/{playerID} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "playerID")
	h.serveCached(w, r, "player:"+id, h.cfg.CacheTTL, func() (interface{}, bool) {
		p, ok := h.data.Player(id)
		if !ok {
			respond.Error(w, r, respond.CodePlayerNotFound, "No player with id "+id)
			return nil, false
		}
		return p, true
	})
}

// GetRound picks a random player for a quiz round.
// @Summary Random quiz round
// @Description Returns a random qualified player. Never cached.
// @Tags players
// @Produce json
// @Success 200 {object} career.Player
// @Failure 404 {object} respond.ErrorResponse
// @Router /round [get]
func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	p, ok := h.data.Random(h.rand)
	h.mu.Unlock()
	if !ok {
		respond.Error(w, r, respond.CodeEmptyDataset, "No players loaded")
		return
	}
	respond.Uncached(w, http.StatusOK, p)
}
