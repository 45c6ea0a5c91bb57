package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	apperrors "github.com/mhertel/xdsmview/pkg/errors"
	"github.com/mhertel/xdsmview/pkg/pipeline"
	"github.com/mhertel/xdsmview/pkg/store"
	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// serveCommand creates the serve command for exposing documents over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve [file...]",
		Short: "Serve workflow documents over an HTTP API",
		Long: `Serve loads the given documents into the configured store and exposes
them over a JSON API:

  GET  /healthz                           liveness probe
  GET  /api/documents                     list document names
  GET  /api/documents/{name}              fetch a document
  PUT  /api/documents/{name}              store a document
  GET  /api/documents/{name}/render       render (query: format, root, variables)

Documents named on the command line are loaded at startup under their
basename (without extension).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, args)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool, paths []string) error {
	if addr == "" {
		addr = c.Config.Serve.Addr
	}

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	// Preload documents named on the command line.
	for _, path := range paths {
		doc, err := xdsm.ReadFile(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := st.Put(ctx, name, doc); err != nil {
			return fmt.Errorf("store %s: %w", name, err)
		}
		c.Logger.Info("loaded document", "name", name, "diagrams", len(doc))
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newAPIHandler(st, runner),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newStore builds the document store selected in the config.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.Config.Store.Backend == "mongo" {
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      c.Config.Store.MongoURI,
			Database: c.Config.Store.MongoDatabase,
		})
	}
	return store.NewMemoryStore(), nil
}

// newAPIHandler builds the chi router for the document API.
func newAPIHandler(st store.Store, runner *pipeline.Runner) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(viewerHTML))
	})

	r.Route("/api/documents", func(r chi.Router) {
		r.Get("/", handleList(st))
		r.Get("/{name}", handleGet(st))
		r.Put("/{name}", handlePut(st))
		r.Get("/{name}/render", handleRender(st, runner))
	})

	return r
}

func handleList(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := st.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if names == nil {
			names = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"documents": names})
	}
}

func handleGet(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := st.Get(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handlePut(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		doc, err := xdsm.Read(r.Body)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := st.Put(r.Context(), chi.URLParam(r, "name"), doc); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"diagrams": len(doc)})
	}
}

func handleRender(st store.Store, runner *pipeline.Runner) http.HandlerFunc {
	contentTypes := map[string]string{
		pipeline.FormatDOT:  "text/vnd.graphviz",
		pipeline.FormatSVG:  "image/svg+xml",
		pipeline.FormatPNG:  "image/png",
		pipeline.FormatJSON: "application/json",
	}

	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := st.Get(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}

		format := r.URL.Query().Get("format")
		if format == "" {
			format = pipeline.FormatSVG
		}
		if err := pipeline.ValidateFormat(format); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}

		opts := pipeline.Options{
			Root:          r.URL.Query().Get("root"),
			Formats:       []string{format},
			ShowVariables: r.URL.Query().Get("variables") == "true",
		}
		opts.SetResolveDefaults()

		tree, err := runner.Resolve(r.Context(), doc, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		artifacts, err := runner.Render(r.Context(), tree, doc, opts)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentTypes[format])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifacts[format])
	}
}

// viewerHTML is the single-page document viewer served at the root. It
// lists stored documents and shows the rendered SVG of the selected one.
const viewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>xdsmview</title>
<style>
  body { font-family: sans-serif; margin: 0; display: flex; height: 100vh; }
  nav { width: 220px; border-right: 1px solid #ddd; padding: 1rem; overflow-y: auto; }
  main { flex: 1; padding: 1rem; overflow: auto; }
  nav h1 { font-size: 1rem; margin-top: 0; }
  nav a { display: block; padding: 0.25rem 0; color: #0366d6; text-decoration: none; cursor: pointer; }
  nav a.active { font-weight: bold; }
</style>
</head>
<body>
<nav><h1>xdsmview</h1><div id="list"></div></nav>
<main><div id="diagram">Select a document.</div></main>
<script>
async function load() {
  const res = await fetch('/api/documents');
  const body = await res.json();
  const list = document.getElementById('list');
  list.innerHTML = '';
  for (const name of body.documents) {
    const a = document.createElement('a');
    a.textContent = name;
    a.onclick = () => show(name, a);
    list.appendChild(a);
  }
}
async function show(name, link) {
  for (const a of document.querySelectorAll('nav a')) a.classList.remove('active');
  link.classList.add('active');
  const res = await fetch('/api/documents/' + encodeURIComponent(name) + '/render?format=svg');
  document.getElementById('diagram').innerHTML = res.ok ? await res.text() : 'render failed';
}
load();
</script>
</body>
</html>
`

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps application error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeDocumentNotFound, apperrors.ErrCodeDiagramNotFound, apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeInvalidDocument, apperrors.ErrCodeInvalidDiagram, apperrors.ErrCodeInvalidWorkflow,
		apperrors.ErrCodeInvalidInput, apperrors.ErrCodeDanglingReference, apperrors.ErrCodeDanglingSubdiagram,
		apperrors.ErrCodeCyclicSubdiagram:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{
		"error": apperrors.UserMessage(err),
		"code":  string(apperrors.GetCode(err)),
	})
}
