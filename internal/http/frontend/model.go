package frontend

import "github.com/janisto/swarm-balance/internal/platform/timeutil"

// Identity names the frontend replica that answered.
type Identity struct {
	Role      string        `json:"role"      doc:"Service role"         example:"frontend"`
	Hostname  string        `json:"hostname"  doc:"Replica hostname"     example:"frontend-5d2a"`
	Timestamp timeutil.Time `json:"timestamp" doc:"Time of the response" example:"2024-01-15T10:30:00.000Z"`
}

// IDOutput is the response wrapper for GET /id.
type IDOutput struct {
	Body Identity
}

// Summary is the payload for GET /. Exactly one of Backend and BackendError is set.
type Summary struct {
	Role         string        `json:"role"                    doc:"Service role"                          example:"frontend"`
	Message      string        `json:"message"                 doc:"Configured greeting"                   example:"Hello from Frontend"`
	Hostname     string        `json:"hostname"                doc:"Frontend replica hostname"             example:"frontend-5d2a"`
	Backend      any           `json:"backend,omitempty"       doc:"Backend info response, as received"`
	BackendError string        `json:"backend_error,omitempty" doc:"Why the backend call failed"           example:"request to http://backend:3000/api/info failed (timeout)"`
	Timestamp    timeutil.Time `json:"timestamp"               doc:"Time of the response"                  example:"2024-01-15T10:30:00.000Z"`
}

// SummaryOutput is the response wrapper for GET /. Status is 200 or 502.
type SummaryOutput struct {
	Status int
	Body   Summary
}

// FanoutInput defines query parameters for GET /fanout. n is read as text so
// malformed values fall back to the default instead of failing validation.
type FanoutInput struct {
	N string `query:"n" doc:"Round trips to perform (default 10, max 50)" example:"10"`
}

// FanoutResult is one round trip: either both hostnames or an error.
type FanoutResult struct {
	Index    int    `json:"index"              doc:"1-based iteration number" example:"1"`
	Frontend string `json:"frontend,omitempty" doc:"Frontend hostname"        example:"frontend-5d2a"`
	Backend  string `json:"backend,omitempty"  doc:"Backend hostname"         example:"backend-7c9f"`
	Error    string `json:"error,omitempty"    doc:"Failure of either call"`
}

// FanoutData is the response body for GET /fanout.
type FanoutData struct {
	Count   int            `json:"count"   doc:"Number of iterations requested" example:"10"`
	Results []FanoutResult `json:"results" doc:"Per-iteration outcomes in order"`
	At      timeutil.Time  `json:"at"      doc:"Completion time"                example:"2024-01-15T10:30:00.000Z"`
}

// FanoutOutput is the response wrapper for GET /fanout.
type FanoutOutput struct {
	Body FanoutData
}
