package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/termdiag/pkg/buildinfo"
	"github.com/matzehuels/termdiag/pkg/cache"
	terr "github.com/matzehuels/termdiag/pkg/errors"
	"github.com/matzehuels/termdiag/pkg/graph"
	"github.com/matzehuels/termdiag/pkg/io"
	"github.com/matzehuels/termdiag/pkg/observability"
	"github.com/matzehuels/termdiag/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may finish after a
// shutdown signal.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Start an HTTP server that renders diagram documents.

Endpoints:
  POST /v1/render        render the document in the request body
  GET  /v1/render/{key}  fetch a cached result by key
  GET  /healthz          liveness check

The cache backend comes from the config file; results are stored under
the "api:" key prefix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Serve.Addr
			}

			runner, err := c.newRunner(ctx, noCache, cache.NewScopedKeyer(nil, "api:"))
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           newServer(runner, c.Config.Render, c.Config.Serve.Timeout.Duration),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext:       func(net.Listener) context.Context { return ctx },
			}
			printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
			printKeyValue("cache", cacheLabel(c.Config.Cache.Backend, noCache))
			printKeyValue("timeout", c.Config.Serve.Timeout.String())
			return listenAndServe(ctx, srv, c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// listenAndServe runs srv until ctx is done, then drains in-flight
// requests.
func listenAndServe(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func cacheLabel(backend string, disabled bool) string {
	switch {
	case disabled:
		return cache.BackendNone
	case backend == "":
		return cache.BackendFile
	}
	return backend
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// =============================================================================
// Handlers
// =============================================================================

// server holds the dependencies of the HTTP handlers.
type server struct {
	runner   *pipeline.Runner
	defaults graph.RenderOptions
}

// renderResponse is the body of a successful render.
type renderResponse struct {
	ID string `json:"id"`
	*pipeline.Result
}

type errorBody struct {
	Code    terr.Code `json:"code"`
	Message string    `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// newServer returns the render API router. A positive timeout bounds each
// request.
func newServer(runner *pipeline.Runner, defaults graph.RenderOptions, timeout time.Duration) http.Handler {
	s := &server{runner: runner, defaults: defaults}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(serverHooks)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/render", func(r chi.Router) {
		r.Post("/", s.handleRender)
		r.Get("/{key}", s.handleResult)
	})
	return r
}

// serverHooks reports every request to the observability hooks.
func serverHooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		start := time.Now()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.requestOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, terr.MaxInputSize)
	doc, err := io.ReadDocument(body, format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = terr.New(terr.ErrCodeInvalidInput, "input too large (max %d bytes)", terr.MaxInputSize)
		}
		writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{ID: uuid.NewString(), Result: res})
}

func (s *server) handleResult(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := terr.ValidateCacheKey(key); err != nil {
		writeError(w, err)
		return
	}

	data, hit, err := s.runner.Cache.Get(r.Context(), key)
	if err != nil {
		writeError(w, terr.Wrap(terr.ErrCodeCache, err, "read %s", key))
		return
	}
	if !hit {
		writeError(w, terr.New(terr.ErrCodeNotFound, "no result for key %q", key))
		return
	}

	var res pipeline.Result
	if err := json.Unmarshal(data, &res); err != nil {
		writeError(w, terr.New(terr.ErrCodeNotFound, "no result for key %q", key))
		return
	}
	res.CacheHit = true
	writeJSON(w, http.StatusOK, renderResponse{ID: uuid.NewString(), Result: &res})
}

// requestFormat picks the body encoding from ?format, then Content-Type.
func requestFormat(r *http.Request) (io.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return io.ParseFormat(f)
	}
	if strings.Contains(r.Header.Get("Content-Type"), "toml") {
		return io.FormatTOML, nil
	}
	return io.FormatJSON, nil
}

// requestOptions overlays query parameters on the server defaults.
func (s *server) requestOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	ro := s.defaults
	var refresh bool

	bools := []struct {
		name string
		dst  *bool
	}{
		{"ascii", &ro.ASCII},
		{"colors", &ro.Colors},
		{"refresh", &refresh},
	}
	for _, b := range bools {
		v := q.Get(b.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return pipeline.Options{}, terr.New(terr.ErrCodeInvalidOptions, "%s: want a boolean, got %q", b.name, v)
		}
		*b.dst = parsed
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"max_width", &ro.MaxWidth},
		{"padding_x", &ro.PaddingX},
		{"padding_y", &ro.PaddingY},
		{"border_padding", &ro.BorderPadding},
	}
	for _, n := range ints {
		v := q.Get(n.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return pipeline.Options{}, terr.New(terr.ErrCodeInvalidOptions, "%s: want an integer, got %q", n.name, v)
		}
		*n.dst = parsed
	}

	return pipeline.Options{Render: ro, Refresh: refresh}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := terr.GetCode(err)
	if code == "" {
		code = terr.ErrCodeInternal
	}
	writeJSON(w, terr.HTTPStatus(err), errorResponse{Error: errorBody{
		Code:    code,
		Message: terr.UserMessage(err),
	}})
}
