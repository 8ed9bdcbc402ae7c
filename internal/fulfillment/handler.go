package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
)

// agentNamespace scopes agent user ids derived from site ids.
var agentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://graylogic.uk/assistant"))

// AgentUserID returns the stable agent user id for a site.
func AgentUserID(siteID string) string {
	return uuid.NewSHA1(agentNamespace, []byte(siteID)).String()
}

// Dispatcher is the registry surface the handler uses.
type Dispatcher interface {
	SyncAll(ctx context.Context) ([]assistant.SyncDevice, error)
	QueryOne(ctx context.Context, id string) (assistant.QueryState, error)
	ExecuteOne(ctx context.Context, id, command string, params map[string]any) (assistant.ExecuteResult, error)
}

// ExecutionRecorder is told about every executed command.
type ExecutionRecorder interface {
	RecordExecution(ctx context.Context, id, command string, result assistant.ExecuteResult)
}

// Logger defines the logging interface used by the Handler.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Handler serves fulfillment requests against a Dispatcher.
type Handler struct {
	dispatcher  Dispatcher
	agentUserID string
	recorders   []ExecutionRecorder
	logger      Logger
}

// NewHandler creates a handler for the given site.
func NewHandler(d Dispatcher, siteID string) *Handler {
	return &Handler{
		dispatcher:  d,
		agentUserID: AgentUserID(siteID),
		logger:      noopLogger{},
	}
}

// SetLogger sets the logger for the handler.
func (h *Handler) SetLogger(logger Logger) {
	h.logger = logger
}

// AddRecorder registers an execution recorder. Must be called before serving.
func (h *Handler) AddRecorder(r ExecutionRecorder) {
	h.recorders = append(h.recorders, r)
}

// AgentUserID returns the agent user id reported on sync.
func (h *Handler) AgentUserID() string {
	return h.agentUserID
}

// Handle serves req. Only the first input is processed.
//
// Errors are returned for malformed requests (ErrInvalidRequest) and for
// configuration the registry rejects, such as duplicate identifiers.
func (h *Handler) Handle(ctx context.Context, req Request) (Response, error) {
	if len(req.Inputs) == 0 {
		return Response{}, fmt.Errorf("%w: no inputs", ErrInvalidRequest)
	}
	input := req.Inputs[0]

	var (
		payload any
		err     error
	)
	switch input.Intent {
	case IntentSync:
		payload, err = h.sync(ctx)
	case IntentQuery:
		payload, err = h.query(ctx, input.Payload)
	case IntentExecute:
		payload, err = h.execute(ctx, input.Payload)
	case IntentDisconnect:
		h.logger.Info("assistant account unlinked", "agent_user_id", h.agentUserID)
		payload = struct{}{}
	default:
		h.logger.Warn("unsupported intent", "intent", input.Intent, "request_id", req.RequestID)
		payload = ErrorPayload{ErrorCode: ErrorCodeNotSupported}
	}
	if err != nil {
		return Response{}, fmt.Errorf("%s: %w", input.Intent, err)
	}

	return Response{RequestID: req.RequestID, Payload: payload}, nil
}

func (h *Handler) sync(ctx context.Context) (SyncPayload, error) {
	devices, err := h.dispatcher.SyncAll(ctx)
	if err != nil {
		return SyncPayload{}, err
	}
	return SyncPayload{AgentUserID: h.agentUserID, Devices: devices}, nil
}

func (h *Handler) query(ctx context.Context, raw json.RawMessage) (QueryPayload, error) {
	var req queryRequest
	if err := decodePayload(raw, &req); err != nil {
		return QueryPayload{}, err
	}

	out := QueryPayload{Devices: make(map[string]assistant.QueryState, len(req.Devices))}
	for _, d := range req.Devices {
		state, err := h.dispatcher.QueryOne(ctx, d.ID)
		if err != nil {
			return QueryPayload{}, err
		}
		out.Devices[d.ID] = state
	}
	return out, nil
}

func (h *Handler) execute(ctx context.Context, raw json.RawMessage) (ExecutePayload, error) {
	var req executeRequest
	if err := decodePayload(raw, &req); err != nil {
		return ExecutePayload{}, err
	}

	var results []assistant.ExecuteResult
	for _, cmd := range req.Commands {
		for _, d := range cmd.Devices {
			for _, exec := range cmd.Execution {
				result, err := h.dispatcher.ExecuteOne(ctx, d.ID, exec.Command, exec.Params)
				if err != nil {
					return ExecutePayload{}, err
				}
				h.record(ctx, d.ID, exec.Command, result)
				results = append(results, result)
			}
		}
	}
	return ExecutePayload{Commands: collapse(results)}, nil
}

func (h *Handler) record(ctx context.Context, id, command string, result assistant.ExecuteResult) {
	h.logger.Debug("execution",
		"id", id,
		"command", command,
		"status", result.Status,
		"error_code", result.ErrorCode,
	)
	for _, r := range h.recorders {
		r.RecordExecution(ctx, id, command, result)
	}
}

// collapse merges results with equal status, states and error code,
// keeping first-appearance order.
func collapse(results []assistant.ExecuteResult) []assistant.ExecuteResult {
	out := make([]assistant.ExecuteResult, 0, len(results))
	index := make(map[string]int)
	for _, r := range results {
		key := outcomeKey(r)
		if i, ok := index[key]; ok {
			out[i].IDs = appendUnique(out[i].IDs, r.IDs...)
			continue
		}
		index[key] = len(out)
		r.IDs = appendUnique(nil, r.IDs...)
		out = append(out, r)
	}
	return out
}

// outcomeKey identifies a result ignoring its ids. Map keys marshal sorted.
func outcomeKey(r assistant.ExecuteResult) string {
	states, err := json.Marshal(r.States)
	if err != nil {
		states = []byte(fmt.Sprint(r.States))
	}
	return string(r.Status) + "\x00" + r.ErrorCode + "\x00" + string(states)
}

func appendUnique(ids []string, more ...string) []string {
	for _, id := range more {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// decodePayload decodes a request payload keeping numbers exact.
func decodePayload(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidRequest)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}
