package handler

import (
	"net/http"
	"strings"

	"github.com/albapepper/scoracle-quiz/internal/api/respond"
	"github.com/albapepper/scoracle-quiz/internal/cache"
)

// GetLogo resolves a team crest on demand.
// @Summary Resolve team crest
// @Description Resolves a crest URL for a team name, page path (/wiki/...) or Wikidata id. Falls back to the default crest, never empty.
// @Tags logos
// @Produce json
// @Param team query string true "Team name, /wiki/ path or QID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /logos [get]
func (h *Handler) GetLogo(w http.ResponseWriter, r *http.Request) {
	team := strings.TrimSpace(r.URL.Query().Get("team"))
	if team == "" {
		respond.Error(w, r, respond.CodeMissingTeam, "team query parameter is required")
		return
	}

	h.serveCached(w, r, "logo:"+team, cache.TTLLogo, func() (interface{}, bool) {
		url := h.crests.Resolve(r.Context(), team)
		if r.Context().Err() != nil {
			return nil, false
		}
		return map[string]interface{}{
			"team":    team,
			"url":     url,
			"default": h.crests.IsDefault(url),
		}, true
	})
}
