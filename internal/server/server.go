// Package server exposes the inliner over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"cssinliner/internal/config"
	"cssinliner/pkg/inliner"
)

// Server serves conversion requests with a shared Inliner.
type Server struct {
	inliner  *inliner.Inliner
	defaults config.ConversionConfig
	cfg      config.ServerConfig
	log      *zap.Logger
}

// New creates a Server. Request fields left out fall back to defaults.
func New(in *inliner.Inliner, cfg config.ServerConfig, defaults config.ConversionConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.Default().Server.MaxBodyBytes
	}
	return &Server{
		inliner:  in,
		defaults: defaults,
		cfg:      cfg,
		log:      log.Named("server"),
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", healthzHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/convert", s.convertHandler)
		r.Post("/preview", s.previewHandler)
		r.Get("/template.css", templateHandler)
	})
	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server started", zap.String("listen", s.cfg.Listen))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		s.log.Info("Server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("Request",
			zap.String("id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

type convertRequest struct {
	HTML             string `json:"html"`
	CSS              string `json:"css"`
	BodyOnly         *bool  `json:"bodyOnly,omitempty"`
	RemoveWhitespace *bool  `json:"removeWhitespace,omitempty"`
	UseTemplateCSS   *bool  `json:"useTemplateCss,omitempty"`
}

type convertResponse struct {
	HTML         string `json:"html"`
	Elements     int    `json:"elements"`
	Declarations int    `json:"declarations"`
	DurationMs   int64  `json:"durationMs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) options(req convertRequest) inliner.Options {
	pick := func(v *bool, def bool) bool {
		if v != nil {
			return *v
		}
		return def
	}
	return inliner.Options{
		BodyOnly:         pick(req.BodyOnly, s.defaults.BodyOnly),
		RemoveWhitespace: pick(req.RemoveWhitespace, s.defaults.RemoveWhitespace),
		UseTemplateCSS:   pick(req.UseTemplateCSS, s.defaults.UseTemplateCSS),
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, req *convertRequest) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return false
	}
	if strings.TrimSpace(req.HTML) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "html is required"})
		return false
	}
	return true
}

func (s *Server) convertHandler(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.inliner.Convert(r.Context(), req.HTML, req.CSS, s.options(req))
	if err != nil {
		s.log.Error("Conversion failed", zap.String("id", middleware.GetReqID(r.Context())), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{
		HTML:         result.HTML,
		Elements:     result.Elements,
		Declarations: result.Declarations,
		DurationMs:   result.Duration.Milliseconds(),
	})
}

func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !s.decode(w, r, &req) {
		return
	}
	cssText := req.CSS
	if s.options(req).UseTemplateCSS {
		cssText = inliner.TemplateCSS + "\n" + cssText
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, inliner.Preview(req.HTML, cssText))
}

func templateHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, inliner.TemplateCSS)
}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
