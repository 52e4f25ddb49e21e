package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/swarm-balance/internal/platform/logging"
	"github.com/janisto/swarm-balance/internal/platform/timeutil"
	"github.com/janisto/swarm-balance/internal/service/upstream"
)

// Role is reported in every frontend response.
const Role = "frontend"

// Deps carries what the frontend routes need. Message and Hostname are fixed
// for the lifetime of the process.
type Deps struct {
	Message  string
	Hostname string
	Peers    upstream.Service
}

// Register wires the frontend JSON routes into the provided API router.
func Register(api huma.API, deps Deps) {
	h := &handler{deps: deps}

	huma.Register(api, huma.Operation{
		OperationID: "get-frontend-id",
		Method:      http.MethodGet,
		Path:        "/id",
		Summary:     "Identify this frontend replica",
		Tags:        []string{"Frontend"},
	}, h.id)

	huma.Register(api, huma.Operation{
		OperationID: "get-frontend-summary",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Call the backend once and report both replicas",
		Description: "Makes a single backend call with a 3 second timeout. " +
			"Answers 502 with backend_error when the backend cannot be reached or does not return JSON.",
		Tags: []string{"Frontend"},
		Responses: map[string]*huma.Response{
			"502": {Description: "Backend call failed"},
		},
	}, h.summary)

	huma.Register(api, huma.Operation{
		OperationID: "get-frontend-fanout",
		Method:      http.MethodGet,
		Path:        "/fanout",
		Summary:     "Perform sequential frontend and backend round trips",
		Description: "Each iteration calls a frontend /id and then the backend info endpoint. " +
			"Failures are reported per iteration; the endpoint itself always answers 200.",
		Tags: []string{"Frontend"},
	}, h.fanout)
}

type handler struct {
	deps Deps
}

func (h *handler) id(_ context.Context, _ *struct{}) (*IDOutput, error) {
	return &IDOutput{Body: Identity{
		Role:      Role,
		Hostname:  h.deps.Hostname,
		Timestamp: timeutil.Now(),
	}}, nil
}

func (h *handler) summary(ctx context.Context, _ *struct{}) (*SummaryOutput, error) {
	// A client hanging up does not cancel the backend call.
	callCtx := context.WithoutCancel(ctx)

	out := &SummaryOutput{
		Status: http.StatusOK,
		Body: Summary{
			Role:     Role,
			Message:  h.deps.Message,
			Hostname: h.deps.Hostname,
		},
	}

	info, err := h.deps.Peers.BackendInfo(callCtx)
	if err == nil {
		out.Body.Backend, err = decodeDocument(info)
	}
	if err != nil {
		applog.LogWarn(ctx, "backend call failed", zap.Error(err))
		out.Status = http.StatusBadGateway
		out.Body.Backend = nil
		out.Body.BackendError = err.Error()
	}
	out.Body.Timestamp = timeutil.Now()
	return out, nil
}

func (h *handler) fanout(ctx context.Context, input *FanoutInput) (*FanoutOutput, error) {
	callCtx := context.WithoutCancel(ctx)
	n := parseCount(input.N)

	results := make([]FanoutResult, 0, max(n, 0))
	// Iterations stay sequential so each one is a separate, visible trial.
	for i := range max(n, 0) {
		results = append(results, h.roundTrip(callCtx, i+1))
	}

	return &FanoutOutput{Body: FanoutData{
		Count:   n,
		Results: results,
		At:      timeutil.Now(),
	}}, nil
}

func (h *handler) roundTrip(ctx context.Context, index int) FanoutResult {
	fe, err := h.deps.Peers.FrontendIdentity(ctx)
	if err != nil {
		applog.LogWarn(ctx, "fanout frontend call failed", zap.Int("index", index), zap.Error(err))
		return FanoutResult{Index: index, Error: err.Error()}
	}
	be, err := h.deps.Peers.BackendIdentity(ctx)
	if err != nil {
		applog.LogWarn(ctx, "fanout backend call failed", zap.Int("index", index), zap.Error(err))
		return FanoutResult{Index: index, Error: err.Error()}
	}
	return FanoutResult{Index: index, Frontend: fe.Hostname, Backend: be.Hostname}
}

// decodeDocument turns the backend payload into a value huma can re-encode in
// any negotiated format. Numbers keep their exact digits.
func decodeDocument(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return null{}, nil
	}
	return doc, nil
}

// null is a backend document that was literally null. A nil interface would be
// dropped by omitempty; this value is still written out.
type null struct{}

func (null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalCBOR writes the CBOR simple value null.
func (null) MarshalCBOR() ([]byte, error) { return []byte{0xf6}, nil }
