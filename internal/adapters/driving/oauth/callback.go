// Package oauth provides the loopback callback server and browser
// helpers for the authorization-code login flow.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/devpulse-labs/devpulse-cli/internal/core/domain"
)

// DefaultWaitTimeout is how long WaitForCode waits for the provider to
// redirect back before giving up.
const DefaultWaitTimeout = 120 * time.Second

// CallbackServer captures a single OAuth redirect on the loopback
// interface. The listening port must match the redirect URI registered
// with the provider, so a bind failure is terminal rather than a cue
// to try another port.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a callback server for one login attempt.
// The expectedState must be the state embedded in the authorization
// URL; callbacks carrying any other value are rejected.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
	}
}

// Start binds the listener and begins serving the callback path.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Loopback only. The redirect never needs to be reachable from
	// another host.
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		if isAddrInUse(err) {
			return fmt.Errorf("%w: %s", domain.ErrPortInUse, addr)
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = listener

	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	return nil
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		errDesc := query.Get("error_description")
		s.deliverErr(fmt.Errorf("provider returned error: %s - %s", errParam, errDesc))
		s.writePage(w, "Authorization failed", html.EscapeString(errDesc))
		return
	}

	// State must match before the code is trusted at all.
	if query.Get("state") != s.expectedState {
		s.deliverErr(domain.ErrStateMismatch)
		s.writePage(w, "Authorization failed", "The response did not match this login attempt. If you did not initiate it, close this window.")
		return
	}

	code := query.Get("code")
	if code == "" {
		s.deliverErr(domain.ErrNoAuthorizationCode)
		s.writePage(w, "Authorization failed", "No authorization code was received.")
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}
	s.writePage(w, "Authorization successful", "You can close this window and return to the terminal.")
}

func (s *CallbackServer) deliverErr(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// WaitForCode blocks until a callback delivers a code, the callback
// fails, the timeout elapses, or ctx is cancelled. Pass timeout <= 0
// for DefaultWaitTimeout.
func (s *CallbackServer) WaitForCode(ctx context.Context, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", domain.ErrCallbackTimeout
		}
		return "", ctx.Err()
	}
}

// Stop shuts the server down. Safe to call whether or not a callback
// arrived.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the bound port.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI served by this callback server.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.Port())
}

func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}

func (s *CallbackServer) writePage(w http.ResponseWriter, title, message string) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>DevPulse - Authentication</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
            box-shadow: 0 4px 24px rgba(0,0,0,0.08);
        }
        h1 {
            color: #333F50;
            margin: 0 0 8px 0;
            font-size: 24px;
            font-weight: 600;
        }
        p {
            color: #7B8088;
            margin: 0;
            font-size: 16px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, title, message)
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
