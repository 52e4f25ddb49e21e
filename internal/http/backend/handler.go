package backend

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/swarm-balance/internal/platform/timeutil"
)

// Role is reported in every backend info response.
const Role = "backend"

// Register wires the backend info route into the provided API router.
// message and hostname are fixed for the lifetime of the process.
func Register(api huma.API, message, hostname string) {
	huma.Register(api, huma.Operation{
		OperationID: "get-backend-info",
		Method:      http.MethodGet,
		Path:        "/api/info",
		Summary:     "Describe this backend replica",
		Description: "Returns the configured message and the hostname of the replica that served the request.",
		Tags:        []string{"Backend"},
	}, func(_ context.Context, _ *struct{}) (*InfoOutput, error) {
		return &InfoOutput{Body: Info{
			Role:      Role,
			Message:   message,
			Hostname:  hostname,
			Timestamp: timeutil.Now(),
		}}, nil
	})
}
