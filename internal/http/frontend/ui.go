package frontend

import (
	_ "embed"
	"net/http"

	applog "github.com/janisto/swarm-balance/internal/platform/logging"
)

//go:embed static/index.html
var dashboard []byte

// UIHandler serves the polling dashboard. The page is static; all state lives
// in the browser.
func UIHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(dashboard); err != nil {
		applog.LogError(r.Context(), "failed to write dashboard", err)
	}
}
