package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Service errors
var (
	ErrTimeout     = errors.New("upstream request timed out")
	ErrUnreachable = errors.New("upstream unreachable")
	ErrDecode      = errors.New("upstream returned invalid JSON")
)

// ErrorKind classifies why a call to a peer service failed.
type ErrorKind string

const (
	ErrorKindTimeout     ErrorKind = "timeout"
	ErrorKindUnreachable ErrorKind = "unreachable"
	ErrorKindDecode      ErrorKind = "decode"
)

// UpstreamError carries the failed URL alongside the classified cause.
type UpstreamError struct {
	Kind  ErrorKind
	URL   string
	cause error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream error"
	}
	if e.cause == nil {
		return fmt.Sprintf("request to %s failed (%s)", e.URL, e.Kind)
	}
	return fmt.Sprintf("request to %s failed (%s): %v", e.URL, e.Kind, e.cause)
}

// Unwrap exposes both the kind sentinel and the underlying transport error.
func (e *UpstreamError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := []error{sentinelFor(e.Kind)}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

func sentinelFor(kind ErrorKind) error {
	switch kind {
	case ErrorKindTimeout:
		return ErrTimeout
	case ErrorKindDecode:
		return ErrDecode
	default:
		return ErrUnreachable
	}
}

// Identity is the subset of an info or id payload needed to tell replicas apart.
type Identity struct {
	Role     string `json:"role"`
	Hostname string `json:"hostname"`
}

// Service defines the calls the frontend makes to its peers.
type Service interface {
	// BackendInfo returns the backend info document exactly as received.
	BackendInfo(ctx context.Context) (json.RawMessage, error)
	// BackendIdentity calls the backend info endpoint and extracts its identity.
	BackendIdentity(ctx context.Context) (*Identity, error)
	// FrontendIdentity calls a frontend replica's /id endpoint.
	FrontendIdentity(ctx context.Context) (*Identity, error)
}
