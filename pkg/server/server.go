// pkg/server/server.go

package server

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/quotation-billing/pkg/archive"
	"github.com/quotation-billing/pkg/catalog"
	"github.com/quotation-billing/pkg/register"
	"github.com/quotation-billing/pkg/render"
	"github.com/quotation-billing/pkg/session"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP layer drives.
type Deps struct {
	Store          *session.Store
	Catalog        *catalog.Catalog
	Renderer       *render.Renderer
	Register       register.Register
	IDs            *register.IDs
	Archiver       archive.Archiver
	Logger         *zap.Logger
	BackgroundPath string
	UploadDir      string
	MaxUploadBytes int64
}

// Server exposes sessions, ledgers and document downloads over HTTP.
type Server struct {
	store          *session.Store
	catalog        *catalog.Catalog
	renderer       *render.Renderer
	register       register.Register
	ids            *register.IDs
	archiver       archive.Archiver
	metrics        *Metrics
	logger         *zap.Logger
	backgroundPath string
	uploadDir      string
	maxUpload      int64
	now            func() time.Time

	router *mux.Router
}

// New wires the routes.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Archiver == nil {
		deps.Archiver = archive.Noop{}
	}
	if deps.Register == nil {
		deps.Register = register.NewMemoryRegister()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 5 * 1024 * 1024
	}

	s := &Server{
		store:          deps.Store,
		catalog:        deps.Catalog,
		renderer:       deps.Renderer,
		register:       deps.Register,
		ids:            deps.IDs,
		archiver:       deps.Archiver,
		logger:         deps.Logger,
		backgroundPath: deps.BackgroundPath,
		uploadDir:      deps.UploadDir,
		maxUpload:      deps.MaxUploadBytes,
		now:            time.Now,
	}
	s.metrics = NewMetrics(func() float64 { return float64(s.store.Len()) })
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(s.recoverMiddleware, s.logMiddleware)

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/catalog", s.listCatalog).Methods(http.MethodGet)
	r.HandleFunc("/issued", s.listIssued).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	r.HandleFunc("/sessions", s.createSession).Methods(http.MethodPost)

	sr := r.PathPrefix("/sessions/{id}").Subrouter()
	sr.HandleFunc("", s.getSession).Methods(http.MethodGet)
	sr.HandleFunc("", s.endSession).Methods(http.MethodDelete)
	sr.HandleFunc("/details", s.putDetails).Methods(http.MethodPut)
	sr.HandleFunc("/items", s.addItem).Methods(http.MethodPost)
	sr.HandleFunc("/items", s.clearItems).Methods(http.MethodDelete)
	sr.HandleFunc("/items/{seq:[0-9]+}", s.removeItem).Methods(http.MethodDelete)
	sr.HandleFunc("/logo", s.uploadLogo).Methods(http.MethodPut)
	sr.HandleFunc("/invoice.pdf", s.downloadInvoice).Methods(http.MethodGet)

	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown failed", zap.Error(err))
	}
	return <-errCh
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("panic", rec), zap.ByteString("stack", debug.Stack()))
				s.writeError(w, http.StatusInternalServerError, Message{Message: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
