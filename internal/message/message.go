// Package message resolves the greeting each service reports from its info
// endpoints.
package message

import (
	"os"
	"strings"
)

// Environment variables consulted by Resolve.
const (
	FileEnv = "MESSAGE_FILE"
	Env     = "MESSAGE"
)

// Service defaults used when neither a message file nor MESSAGE is configured.
const (
	DefaultBackend  = "Hello from Backend"
	DefaultFrontend = "Hello from Frontend"
)

// LookupFunc reads a single environment variable.
type LookupFunc func(key string) string

// Resolve returns the message for this process using the real environment.
// Call it once at startup; the result is not refreshed when the file changes.
func Resolve(fileVar, envVar, fallback string) string {
	return ResolveWith(os.Getenv, fileVar, envVar, fallback)
}

// ResolveWith applies the resolution order:
//
//  1. trimmed contents of the file named by fileVar, when non-empty;
//  2. the value of envVar, verbatim, when non-empty;
//  3. fallback.
//
// File errors of any kind (missing, unreadable, removed between checks) fall
// through to the next step and are never reported.
func ResolveWith(lookup LookupFunc, fileVar, envVar, fallback string) string {
	if path := lookup(fileVar); path != "" {
		if content, ok := readMessageFile(path); ok {
			return content
		}
	}
	if v := lookup(envVar); v != "" {
		return v
	}
	return fallback
}

func readMessageFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	content := strings.TrimSpace(string(data))
	return content, content != ""
}
