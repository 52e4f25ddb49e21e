package health

import (
	"net/http"

	applog "github.com/janisto/swarm-balance/internal/platform/logging"
	"github.com/janisto/swarm-balance/internal/platform/respond"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status"`
}

// Handler reports liveness. It has no dependencies, so it answers 200 even
// when peers are down.
func Handler(w http.ResponseWriter, r *http.Request) {
	if err := respond.JSON(w, http.StatusOK, Response{Status: "ok"}); err != nil {
		applog.LogError(r.Context(), "failed to render health", err)
	}
}
