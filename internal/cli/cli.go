// Package cli implements the fungen command-line front end: template and
// substitute CRUD, one-shot generation, and the `serve` subcommand that
// hosts the same engine over MCP. Grounded on the teacher's cobra-based
// internal/cli package, simplified by dropping its remote-proxy dispatch
// (no running-server detection/forwarding — every invocation talks to the
// configured store directly, the way a short-lived CLI process should).
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fungen.dev/internal/applog"
	"fungen.dev/internal/cache"
	"fungen.dev/internal/config"
	"fungen.dev/internal/generator"
	"fungen.dev/internal/gensession"
	"fungen.dev/internal/interp"
	"fungen.dev/internal/llmadapter"
	"fungen.dev/internal/rename"
	"fungen.dev/internal/server"
	"fungen.dev/internal/store"
	"fungen.dev/internal/store/memstore"
	"fungen.dev/internal/store/pgstore"
)

// Package-level vars are the standard way to bind Cobra persistent flags.
// Execute resets them before each invocation to ensure test isolation.
var globalConfig string

// exitError is a sentinel error that carries a specific exit code. RunE
// functions return this instead of calling os.Exit directly, letting
// Execute handle process termination in one place.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// engine bundles everything a CLI command needs to talk to the store.
type engine struct {
	cfg     *config.Config
	backing store.Store
	front   *cache.Cache
	gen     *generator.Generator
	renamer *rename.Propagator
	llm     generator.LLMBackend
	closer  func()
}

// bootstrap loads configuration and constructs the engine every command
// operates against: the persistent store (Postgres if store.dsn is set,
// an in-memory store otherwise), the substitute cache, the generator, the
// rename propagator, and the optional Ollama adapter.
func bootstrap(ctx context.Context) (*engine, error) {
	if err := gensession.Setup(); err != nil {
		return nil, fmt.Errorf("failed to set up session tracing: %w", err)
	}

	cfg, loaded, err := config.LoadConfig(globalConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnvOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if !loaded {
		fmt.Fprintln(os.Stderr, "Warning: no config file found; running with defaults (in-memory store).")
	}

	log := applog.New(cfg.Logging.Level, cfg.Logging.Format)

	var backing store.Store
	var closer func()
	if cfg.Store.DSN != "" {
		pg, err := pgstore.Open(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to store: %w", err)
		}
		backing = pg
		closer = pg.Close
		log.Debug("connected to postgres substitute store")
	} else {
		backing = memstore.New()
		log.Debug("using in-memory substitute store")
	}

	front := cache.NewWithBounds(backing, cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	gen := generator.New(front)
	renamer := rename.New(backing, front)

	var llm generator.LLMBackend
	if cfg.Ollama.Endpoint != "" {
		adapter, err := llmadapter.New(cfg.Ollama.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to configure ollama adapter: %w", err)
		}
		llm = adapter
	}

	return &engine{cfg: cfg, backing: backing, front: front, gen: gen, renamer: renamer, llm: llm, closer: closer}, nil
}

func (e *engine) ollamaSettings() generator.Settings {
	return generator.Settings{
		Temperature:   e.cfg.Ollama.Temperature,
		RepeatPenalty: e.cfg.Ollama.RepeatPenalty,
		TopK:          e.cfg.Ollama.TopK,
		TopP:          e.cfg.Ollama.TopP,
		SystemPrompt:  e.cfg.Ollama.SystemPrompt,
		Template:      e.cfg.Ollama.Template,
		MaxPredict:    e.cfg.Ollama.MaxPredict,
	}
}

// newRootCmd builds and returns the full Cobra command tree. It is
// separated from Execute so tests can construct a fresh command.
func newRootCmd(v string) *cobra.Command {
	root := &cobra.Command{
		Use:           "fungen",
		Short:         "Template generation engine and MCP server",
		Version:       v,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			srv := server.NewServer(e.backing, e.front, e.gen, e.renamer, e.llm, e.cfg.Ollama.Model, e.ollamaSettings(), v)
			return srv.Serve()
		},
	}

	root.PersistentFlags().StringVar(&globalConfig, "config", "", "Path to a .fungen.yaml config file")

	root.AddCommand(
		newServeCmd(v),
		newGenerateCmd(),
		newGenerateAICmd(),
		newTemplateCmd(),
		newSubstituteCmd(),
	)
	return root
}

func newServeCmd(v string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as a standalone HTTP MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			srv := server.NewServer(e.backing, e.front, e.gen, e.renamer, e.llm, e.cfg.Ollama.Model, e.ollamaSettings(), v)
			return srv.ServeHTTP(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8765", "Listen address for HTTP mode")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <text>",
		Short: "Expand a template string to a fixed point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			trace := gensession.Start(args[0])
			start := time.Now()
			output, iterations, err := e.gen.GenerateCounting(cmd.Context(), args[0], interp.New())
			trace.Finish(output, iterations, err)
			printGenerateResult(output, iterations, trace.SessionID(), time.Since(start), err)
			if err != nil {
				return &exitError{code: 1}
			}
			return nil
		},
	}
}

func newGenerateAICmd() *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "generate-ai <prompt>",
		Short: "Expand a prompt and forward it to the configured Ollama model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			if e.llm == nil {
				return fmt.Errorf("no ollama.endpoint configured")
			}
			if model == "" {
				model = e.cfg.Ollama.Model
			}
			if model == "" {
				return fmt.Errorf("no model configured: set ollama.model or pass --model")
			}

			trace := gensession.Start(args[0])
			start := time.Now()
			output, err := e.gen.GenerateAI(cmd.Context(), e.llm, model, e.ollamaSettings(), args[0], interp.New())
			trace.Finish(output, 0, err)
			printGenerateResult(output, 0, trace.SessionID(), time.Since(start), err)
			if err != nil {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Overrides ollama.model for this call")
	return cmd
}

// Execute sets up and runs the Cobra command tree.
func Execute(v string) {
	globalConfig = ""

	cmd := newRootCmd(v)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
