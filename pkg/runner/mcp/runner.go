package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"tableflip.dev/propertease/pkg/app"
)

// Transport selects how agents reach the calendar tools.
type Transport string

const (
	// TransportHTTP serves the streamable HTTP transport on HTTPListenAddr.
	TransportHTTP Transport = "http"
	// TransportStdio serves a single agent over stdin/stdout.
	TransportStdio Transport = "stdio"
)

const (
	defaultListenAddr   = "127.0.0.1:8080"
	defaultEndpointPath = "/mcp"
	shutdownGrace       = 5 * time.Second
)

const instructions = "Plan a real estate content calendar: read month grids and days, edit ideas, " +
	"categories and statuses, compose image prompts, and auto-schedule a month and the next."

// Runner exposes an app.Service to agents as MCP tools and resources.
type Runner struct {
	// App backs every tool; its Persistence must be set.
	App *app.Service
	// Name and Version are reported in the MCP handshake.
	Name    string
	Version string
	Logger  *zap.Logger

	Transport Transport
	// HTTPListenAddr is host:port; port 0 picks a free port, reported
	// through OnHTTPListening.
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
	// HTTPServerCert and HTTPServerKey enable TLS; both or neither.
	HTTPServerCert string
	HTTPServerKey  string
}

// Run serves a over stdio until the agent disconnects.
func Run(ctx context.Context, a *app.Service) error {
	return Runner{App: a, Transport: TransportStdio}.Do(ctx)
}

// NewServer builds the MCP server with the calendar tools and month resources
// registered.
func (r Runner) NewServer() *server.MCPServer {
	name := r.Name
	if name == "" {
		name = "propertease"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)

	svc := NewService(r.App)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

// Do serves until ctx is cancelled (HTTP) or stdin closes (stdio).
func (r Runner) Do(ctx context.Context) error {
	if r.App == nil || r.App.Persistence == nil {
		return errors.New("mcp runner requires persistence")
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	srv := r.NewServer()
	switch t := r.Transport; t {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv, log)
	case TransportStdio:
		log.Info("serving calendar tools over stdio")
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", t)
	}
}

// endpointPath returns HTTPEndpointPath with a leading slash, or the default.
func (r Runner) endpointPath() string {
	path := strings.TrimSpace(r.HTTPEndpointPath)
	if path == "" {
		return defaultEndpointPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func (r Runner) tlsEnabled() (bool, error) {
	switch {
	case r.HTTPServerCert != "" && r.HTTPServerKey != "":
		return true, nil
	case r.HTTPServerCert != "" || r.HTTPServerKey != "":
		return false, errors.New("both http tls cert and key must be provided")
	}
	return false, nil
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer, log *zap.Logger) error {
	useTLS, err := r.tlsEnabled()
	if err != nil {
		return err
	}

	path := r.endpointPath()
	mux := http.NewServeMux()
	mux.Handle(path, server.NewStreamableHTTPServer(srv))
	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	addr := r.HTTPListenAddr
	if addr == "" {
		addr = defaultListenAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info("serving calendar tools over http",
		zap.Stringer("addr", ln.Addr()),
		zap.String("path", path),
		zap.Bool("tls", useTLS))
	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("mcp http shutdown", zap.Error(err))
		}
	}()

	if useTLS {
		err = httpSrv.ServeTLS(ln, r.HTTPServerCert, r.HTTPServerKey)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
