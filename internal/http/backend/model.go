package backend

import "github.com/janisto/swarm-balance/internal/platform/timeutil"

// Info identifies the backend replica that answered.
type Info struct {
	Role      string        `json:"role"      doc:"Service role"         example:"backend"`
	Message   string        `json:"message"   doc:"Configured greeting"  example:"Hello from Backend"`
	Hostname  string        `json:"hostname"  doc:"Replica hostname"     example:"backend-7c9f"`
	Timestamp timeutil.Time `json:"timestamp" doc:"Time of the response" example:"2024-01-15T10:30:00.000Z"`
}

// InfoOutput is the response wrapper for GET /api/info.
type InfoOutput struct {
	Body Info
}
