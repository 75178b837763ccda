// Package server exposes template/substitute CRUD and generation as MCP
// tools (A5), so an LLM-agent caller can drive the engine the same way
// the CLI does. Grounded on the teacher's internal/server package
// (NewServer/Serve/ServeHTTP split, graceful shutdown, server registry
// file on HTTP start) reshaped around generation tools instead of task
// tools.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"fungen.dev/internal/cache"
	"fungen.dev/internal/generator"
	"fungen.dev/internal/gensession"
	"fungen.dev/internal/interp"
	"fungen.dev/internal/mcputil"
	"fungen.dev/internal/process"
	"fungen.dev/internal/rename"
	"fungen.dev/internal/store"
)

// Server wraps the MCP server with the engine's store, cache, generator,
// and rename propagator.
type Server struct {
	mu        sync.Mutex
	mcpServer *mcpserver.MCPServer
	store     store.Store
	cache     *cache.Cache
	gen       *generator.Generator
	renamer   *rename.Propagator
	llm       generator.LLMBackend
	ollama    generator.Settings
	ollamaModel string
	version   string
}

// NewServer wires an MCP server over backing/front/gen/renamer. llm may
// be nil if no Ollama endpoint is configured, in which case generate_ai
// is not registered.
func NewServer(backing store.Store, front *cache.Cache, gen *generator.Generator, renamer *rename.Propagator, llm generator.LLMBackend, ollamaModel string, ollama generator.Settings, version string) *Server {
	mcpServer := mcpserver.NewMCPServer(
		"fungen",
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(true, false),
	)

	s := &Server{
		mcpServer:   mcpServer,
		store:       backing,
		cache:       front,
		gen:         gen,
		renamer:     renamer,
		llm:         llm,
		ollama:      ollama,
		ollamaModel: ollamaModel,
		version:     version,
	}

	if _, err := gensession.Cleanup(gensession.DefaultRetention); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: session cleanup failed: %v\n", err)
	}

	s.registerTemplateTools()
	s.registerSubstituteTools()
	s.registerGenerateTools()
	s.registerResources()

	return s
}

// Serve starts the MCP server over stdio.
func (s *Server) Serve() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

// ServeHTTP starts the MCP server as a standalone HTTP server using the
// StreamableHTTP transport, writing a server registry file so a later
// `serve` invocation can detect it, and handling graceful shutdown on
// SIGINT/SIGTERM. It refuses to start if the registry names a
// still-running server (see checkNoServerRunning).
func (s *Server) ServeHTTP(addr string) error {
	if err := checkNoServerRunning(); err != nil {
		return err
	}

	httpServer := mcpserver.NewStreamableHTTPServer(s.mcpServer)

	normalizedAddr := normalizeAddr(addr)
	if err := process.WriteServerFile(process.ServerFileData{
		Addr:    normalizedAddr,
		PID:     os.Getpid(),
		Version: s.version,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write server registry: %v\n", err)
	}
	defer process.DeleteServerFile("")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		if err := httpServer.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error shutting down HTTP server: %v\n", err)
		}
	}()

	fmt.Fprintf(os.Stderr, "fungen MCP server listening on %s\n", mcputil.Endpoint(normalizedAddr))
	return httpServer.Start(addr)
}

// checkNoServerRunning inspects the registry file left by a prior `serve`
// invocation (ambient A8, the teacher's own running-server liveness
// concern carried over): if it names a PID that is still alive and an
// address that still answers HTTP, a server is genuinely already up and
// this call refuses to start a second one over it. A registry file
// naming a dead PID or an address that no longer answers is stale — its
// previous owner crashed or was killed without cleanup — so it is left
// for ServeHTTP's own WriteServerFile to overwrite.
func checkNoServerRunning() error {
	data, err := process.ReadServerFile("")
	if err != nil {
		return nil
	}
	if process.IsProcessAlive(data.PID) && process.ProbeHTTP(data.Addr) {
		if data.Version != "" {
			return fmt.Errorf("a fungen server (version %s) is already running at %s (pid %d); stop it before starting another", data.Version, data.Addr, data.PID)
		}
		return fmt.Errorf("a fungen server is already running at %s (pid %d); stop it before starting another", data.Addr, data.PID)
	}
	return nil
}

// normalizeAddr expands a bare port like ":8080" to "http://localhost:8080".
func normalizeAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		return "http://" + addr
	}
	return addr
}

// GetMCPServer returns the underlying MCP server, mainly for tests.
func (s *Server) GetMCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// newInterpreter builds a fresh per-call interpreter, per spec §3's
// lifecycle (fresh variable state per generate call).
func newInterpreter() *interp.Interpreter {
	return interp.New()
}
