package websocket

import (
	"encoding/json"

	"github.com/dalbom/arithmetic/internal/arithmetic"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionGenerate Action = "generate"
	ActionPing     Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action    Action          `json:"action"`
	Worksheet json.RawMessage `json:"worksheet,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventPage  Event = "page"
	EventDone  Event = "done"
	EventError Event = "error"
	EventPong  Event = "pong"
)

// PageEvent carries one generated page.
type PageEvent struct {
	Event Event           `json:"event"`
	Page  arithmetic.Page `json:"page"`
}

// DoneEvent closes a generation run.
type DoneEvent struct {
	Event     Event  `json:"event"`
	Pages     int    `json:"pages"`
	Fallbacks int    `json:"fallbacks"`
	Seed      uint64 `json:"seed,string"`
}

// ErrorResponse reports a failed action. Fields holds validation details.
type ErrorResponse struct {
	Event  Event             `json:"event"`
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
