package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/Gor-c/emind/pkg/cache"
	"github.com/Gor-c/emind/pkg/config"
	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/export"
	mindio "github.com/Gor-c/emind/pkg/io"
	"github.com/Gor-c/emind/pkg/observability"
	"github.com/Gor-c/emind/pkg/pipeline"
	"github.com/Gor-c/emind/pkg/tree"
)

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
		Long: `Serve the render API over HTTP.

Routes:
  POST /v1/render?width=&height=   tree body (JSON or YAML) -> PNG attachment
  POST /v1/svg                     tree body -> export SVG document
  POST /v1/layout                  tree body -> layout JSON
  GET  /healthz                    liveness

Send YAML with Content-Type: application/yaml; anything else is read as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, noCache bool) error {
	store, err := c.newCache(cfg, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	s := newServer(cfg, store, newKeyer(), c.Logger)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Server.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// =============================================================================
// HTTP Server
// =============================================================================

// server answers render requests. Each request gets its own runner, so a
// diagram never outlives its request; the cache is shared.
type server struct {
	cfg    config.Config
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

func newServer(cfg config.Config, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *server {
	return &server{cfg: cfg, cache: c, keyer: keyer, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	if s.cfg.Server.RenderTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Server.RenderTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/svg", s.handleSVG)
		r.Post("/layout", s.handleLayout)
	})
	return r
}

// observe reports every request to the HTTP hooks and the log.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d.Round(time.Millisecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	width, height, err := s.viewport(r)
	if err != nil {
		writeError(w, err)
		return
	}
	runner, root, err := s.rendered(w, r, width, height)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := runner.ExportImage(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	name := export.SafeFileName(s.cfg.Export.Prefix, root.Name)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", contentDisposition(name))
	w.Header().Set("X-Emind-Cache", cacheStatus(res.Cached))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PNG)))
	_, _ = w.Write(res.PNG)
}

func (s *server) handleSVG(w http.ResponseWriter, r *http.Request) {
	runner, _, err := s.rendered(w, r, s.cfg.Server.Width, s.cfg.Server.Height)
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := runner.ExportDocument()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(doc)
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	root, err := s.readTree(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	runner, err := pipeline.NewRunner(s.cfg, s.cache, s.keyer, s.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	data, cached, err := runner.LayoutJSON(r.Context(), root)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Emind-Cache", cacheStatus(cached))
	_, _ = w.Write(data)
}

// rendered reads the tree body and renders it with a fresh runner.
func (s *server) rendered(w http.ResponseWriter, r *http.Request, width, height int) (*pipeline.Runner, *tree.Node, error) {
	root, err := s.readTree(w, r)
	if err != nil {
		return nil, nil, err
	}
	runner, err := pipeline.NewRunner(s.cfg, s.cache, s.keyer, s.logger)
	if err != nil {
		return nil, nil, err
	}
	if err := runner.Render(r.Context(), root, width, height); err != nil {
		return nil, nil, err
	}
	return runner, root, nil
}

func (s *server) readTree(w http.ResponseWriter, r *http.Request) (*tree.Node, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	defer body.Close()
	root, err := mindio.Read(body, requestFormat(r))
	if err != nil {
		return nil, err
	}
	if err := validateLabels(root); err != nil {
		return nil, err
	}
	return root, nil
}

// validateLabels applies the network label limits to every node.
func validateLabels(root *tree.Node) error {
	var err error
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		if err == nil {
			if e := errors.ValidateLabel(n.Name); e != nil {
				err = fmt.Errorf("node %q: %w", n.Name, e)
			}
		}
		return err == nil
	})
	return err
}

// viewport reads the width and height query parameters.
func (s *server) viewport(r *http.Request) (int, int, error) {
	width, height := s.cfg.Server.Width, s.cfg.Server.Height
	for _, p := range []struct {
		name string
		dst  *int
	}{{"width", &width}, {"height", &height}} {
		v := r.URL.Query().Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a positive integer, got %q", p.name, v)
		}
		*p.dst = n
	}
	return width, height, nil
}

// requestFormat picks the decoder from the query or the Content-Type.
func requestFormat(r *http.Request) mindio.Format {
	if f, err := mindio.ParseFormat(r.URL.Query().Get("format")); err == nil {
		return f
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return mindio.FormatYAML
	}
	return mindio.FormatJSON
}

func contentDisposition(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// errorBody is the JSON returned for failed requests.
type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)}
	if status == http.StatusRequestEntityTooLarge {
		body.Error = "request body too large"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeDegenerateContent:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotRendered:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeExportDecode:
		return http.StatusInternalServerError
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
