package asgi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
)

// Server binds a listening socket and drives an Application with the
// scope/receive/send exchange for every connection.
type Server struct {
	Host string
	Port int

	app Application
}

// NewServer prepares a server for app on host:port. Nothing is bound
// until Listen is called.
func NewServer(host string, port int, app Application) *Server {
	return &Server{Host: host, Port: port, app: app}
}

// Listen binds the endpoint and serves until ctx is cancelled or the
// listener fails. A bind failure is returned before any request is
// accepted, so startup errors surface as a non-zero exit with no
// listening socket left behind.
func (s *Server) Listen(ctx context.Context) error {
	if s.app == nil {
		return fmt.Errorf("asgi: no application to serve")
	}

	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler()}

	// The stop must be released when Serve returns on its own, not
	// only when ctx fires.
	stop := context.AfterFunc(ctx, func() { srv.Close() })
	defer stop()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve failed on %s: %w", ln.Addr(), err)
	}
	return nil
}

// Handler bridges net/http requests into the application contract.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := Scope{
			Type:     "http",
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Headers:  r.Header,
			Client:   r.RemoteAddr,
			Server:   r.Host,
		}

		delivered := false
		receive := func(ctx context.Context) (Event, error) {
			if delivered {
				return Event{}, io.EOF
			}
			delivered = true
			body, err := io.ReadAll(r.Body)
			if err != nil {
				return Event{}, fmt.Errorf("failed to read request body: %w", err)
			}
			return Event{Type: EventRequest, Body: body}, nil
		}

		started := false
		send := func(ctx context.Context, ev Event) error {
			switch ev.Type {
			case EventResponseStart:
				if started {
					return fmt.Errorf("asgi: response already started")
				}
				started = true
				for k, vs := range ev.Headers {
					for _, v := range vs {
						w.Header().Add(k, v)
					}
				}
				status := ev.Status
				if status == 0 {
					status = http.StatusOK
				}
				w.WriteHeader(status)
				return nil
			case EventResponseBody:
				if !started {
					return fmt.Errorf("asgi: body sent before response start")
				}
				if _, err := w.Write(ev.Body); err != nil {
					return err
				}
				return nil
			}
			return fmt.Errorf("asgi: unsupported event type %q", ev.Type)
		}

		if err := s.app.Serve(r.Context(), scope, receive, send); err != nil {
			if !started {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}
	})
}

// WrapHandler adapts an http.Handler into an Application, so router
// stacks built on net/http (or adapted to it) can be served under the
// entry-point contract.
func WrapHandler(h http.Handler) Application {
	return ApplicationFunc(func(ctx context.Context, scope Scope, receive ReceiveFunc, send SendFunc) error {
		var body io.Reader = http.NoBody
		if ev, err := receive(ctx); err == nil && ev.Type == EventRequest {
			body = bytes.NewReader(ev.Body)
		}

		url := scope.Path
		if scope.RawQuery != "" {
			url += "?" + scope.RawQuery
		}
		req, err := http.NewRequestWithContext(ctx, scope.Method, url, body)
		if err != nil {
			return fmt.Errorf("failed to rebuild request: %w", err)
		}
		req.Header = scope.Headers
		req.RemoteAddr = scope.Client
		req.Host = scope.Server

		rec := &responseCapture{header: make(http.Header)}
		h.ServeHTTP(rec, req)

		if err := send(ctx, Event{Type: EventResponseStart, Status: rec.statusOrOK(), Headers: rec.header}); err != nil {
			return err
		}
		return send(ctx, Event{Type: EventResponseBody, Body: rec.body})
	})
}

type responseCapture struct {
	header http.Header
	status int
	body   []byte
}

func (r *responseCapture) Header() http.Header { return r.header }

func (r *responseCapture) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *responseCapture) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body = append(r.body, p...)
	return len(p), nil
}

func (r *responseCapture) statusOrOK() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
