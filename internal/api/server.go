// Package api serves the roster over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumina-learn/lumina/internal/metrics"
	"github.com/lumina-learn/lumina/internal/roster"
)

// Server holds the handler dependencies.
type Server struct {
	students *roster.Store
	persist  roster.Persistence
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// New creates a Server. persist stores the viewer role; m may be nil.
func New(students *roster.Store, persist roster.Persistence, m *metrics.Metrics, logger *zap.Logger) *Server {
	return &Server{students: students, persist: persist, metrics: m, logger: logger}
}

// Router builds the gin engine with every route mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), requestMetrics(s.metrics))

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	{
		st := api.Group("/students")
		st.GET("", s.listStudents)
		st.POST("", s.createStudent)
		st.GET("/active", s.activeStudent)
		st.GET("/:id", s.getStudent)
		st.PATCH("/:id", s.updateStudent)
		st.DELETE("/:id", s.deleteStudent)
		st.POST("/:id/select", s.selectStudent)
		st.GET("/:id/risk", s.studentRisk)
		st.POST("/:id/insight", s.refreshInsight)

		api.GET("/role", s.getRole)
		api.PUT("/role", s.putRole)
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, newError("NOT_FOUND", http.StatusNotFound, "route not found"))
	})
	return r
}

// ListenAndServe runs the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"status": "ok", "students": s.students.Len()})
}
