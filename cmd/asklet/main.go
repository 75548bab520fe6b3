package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/asklet/asklet/internal/handler"
	"github.com/asklet/asklet/internal/quiz"
	"github.com/asklet/asklet/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "asklet",
		Short: "LLM-backed quiz generation API",
	}

	serve := serveCmd()
	root.AddCommand(serve)

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `asklet --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz HTTP server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8000", "HTTP listen address")
	f.String("db", ":memory:", `Quiz store: SQLite path, ":memory:", or "memory" for the map store`)
	f.String("llm-url", "https://api.groq.com/openai/v1", "OpenAI-compatible API base URL")
	f.String("llm-model", "llama-3.1-8b-instant", "LLM model name")
	f.Float32("llm-temperature", 0.9, "Sampling temperature for question generation")
	f.Duration("llm-timeout", 30*time.Second, "Timeout per LLM call")
	f.Bool("include-answers", true, "Include correct answers in the generate response")
	f.StringSlice("cors-origins", []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"https://askletquiz.onrender.com",
	}, "Allowed CORS origins")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("ASKLET")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("asklet")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/asklet")
	v.AddConfigPath("/etc/asklet")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	// Load .env so the Groq credential slots can live in a dotfile.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	// Resolve credential slots once; an empty set means every generation
	// request would fail, so refuse to start.
	creds := quiz.CredentialsFromEnv()
	if len(creds) == 0 {
		return fmt.Errorf("no Groq API keys configured: set at least one of GROQ_API_KEY_1..4")
	}
	slog.Info("credential slots configured", "count", len(creds))

	st, err := openStore(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open quiz store: %w", err)
	}
	defer st.Close()

	svc := quiz.NewService(st, creds, quiz.Config{
		BaseURL:     v.GetString("llm-url"),
		Model:       v.GetString("llm-model"),
		Temperature: float32(v.GetFloat64("llm-temperature")),
		Timeout:     v.GetDuration("llm-timeout"),
	}, nil)

	h := handler.New(svc, v.GetBool("include-answers"))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.Routes(r)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   v.GetStringSlice("cors-origins"),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(r)

	addr := v.GetString("addr")
	// No WriteTimeout: a generate request may run several LLM round
	// trips back to back.
	srv := &http.Server{
		Addr:        addr,
		Handler:     corsHandler,
		ReadTimeout: 15 * time.Second,
	}

	slog.Info("starting server",
		"addr", addr,
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"llm_timeout", v.GetDuration("llm-timeout"),
		"db", v.GetString("db"),
		"include_answers", v.GetBool("include-answers"),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// openStore selects the quiz store backend from the --db value.
func openStore(db string) (store.Store, error) {
	if db == "memory" {
		return store.NewMemory(), nil
	}
	return store.New(db)
}
