// Package host exposes the network identity of the running replica.
package host

import (
	"os"
	"sync"
)

const unknownHostname = "unknown"

var (
	nameOnce sync.Once
	name     string
)

// Name returns the process hostname, resolved once. Inside a container this is
// the container ID or the task name assigned by the orchestrator.
func Name() string {
	nameOnce.Do(func() {
		h, err := os.Hostname()
		if err != nil || h == "" {
			h = unknownHostname
		}
		name = h
	})
	return name
}
