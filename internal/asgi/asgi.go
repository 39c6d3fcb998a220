// Package asgi defines the application contract the launcher serves: a
// three-argument asynchronous handler that receives a connection scope
// plus receive/send channels and drives the request/response exchange.
// Any implementation of Application can be registered and served; the
// server imposes no further constraint on what the handler does.
package asgi

import (
	"context"
	"net/http"
)

// Scope carries per-connection metadata handed to the application.
type Scope struct {
	Type     string // currently always "http"
	Method   string
	Path     string
	RawQuery string
	Headers  http.Header
	Client   string // remote address
	Server   string // local address
}

// Event is one message exchanged over the receive/send channels.
type Event struct {
	Type    string // "http.request", "http.response.start", "http.response.body"
	Status  int
	Headers http.Header
	Body    []byte
	More    bool // further body events follow
}

// Event types used by the HTTP exchange.
const (
	EventRequest       = "http.request"
	EventResponseStart = "http.response.start"
	EventResponseBody  = "http.response.body"
)

// ReceiveFunc yields the next event from the client.
type ReceiveFunc func(ctx context.Context) (Event, error)

// SendFunc delivers an event toward the client.
type SendFunc func(ctx context.Context, ev Event) error

// Application is the entry-point shape a served module must expose.
type Application interface {
	Serve(ctx context.Context, scope Scope, receive ReceiveFunc, send SendFunc) error
}

// ApplicationFunc adapts a plain function to Application.
type ApplicationFunc func(ctx context.Context, scope Scope, receive ReceiveFunc, send SendFunc) error

func (f ApplicationFunc) Serve(ctx context.Context, scope Scope, receive ReceiveFunc, send SendFunc) error {
	return f(ctx, scope, receive, send)
}
