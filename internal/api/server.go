// Package api serves a read-only JSON view of learner skills, role
// readiness and recorded results.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/skillpath/internal/gap"
	"github.com/abhisek/skillpath/internal/metrics"
	"github.com/abhisek/skillpath/internal/skills"
	"github.com/abhisek/skillpath/internal/store"
)

const maxUserIDLen = 128

// Repos is the slice of the store the API reads directly.
type Repos interface {
	UserSkillRepo() store.UserSkillRepo
	ResultRepo() store.ResultRepo
}

type Server struct {
	repos  Repos
	gaps   *gap.Service
	logger *zap.Logger
}

func NewServer(repos Repos, gaps *gap.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{repos: repos, gaps: gaps, logger: logger}
}

// Router builds the gin engine with metrics and recovery middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.MetricsMiddleware(), s.accessLog())

	r.GET("/healthz", func(c *gin.Context) { success(c, gin.H{"status": "ok"}) })
	r.GET("/metrics", metrics.PrometheusHandler())

	users := r.Group("/v1/users/:user", s.requireUser)
	{
		users.GET("/skills", s.listSkills)
		users.GET("/readiness", s.readiness)
		users.GET("/roles/:role/match", s.match)
		users.GET("/results", s.listResults)
	}
	r.NoRoute(func(c *gin.Context) { notFound(c, "no such endpoint") })
	return r
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()))
	}
}

func (s *Server) requireUser(c *gin.Context) {
	if u := c.Param("user"); len(u) > maxUserIDLen {
		badRequest(c, "user id too long")
		return
	}
	c.Next()
}

func (s *Server) listSkills(c *gin.Context) {
	list, err := s.repos.UserSkillRepo().ListByUser(c.Request.Context(), c.Param("user"))
	if err != nil {
		s.internalError(c, err)
		return
	}
	if list == nil {
		list = []skills.UserSkill{}
	}
	success(c, list)
}

func (s *Server) readiness(c *gin.Context) {
	reports, err := s.gaps.Readiness(c.Request.Context(), c.Param("user"), c.QueryArray("role")...)
	if err != nil {
		s.internalError(c, err)
		return
	}
	success(c, reports)
}

type matchResponse struct {
	RoleID string      `json:"role_id"`
	Score  int         `json:"score"`
	Report *gap.Report `json:"report"`
}

func (s *Server) match(c *gin.Context) {
	roleID := c.Param("role")
	score, report, err := s.gaps.Match(c.Request.Context(), c.Param("user"), roleID)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "unknown role "+strconv.Quote(roleID))
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	success(c, matchResponse{RoleID: roleID, Score: score, Report: report})
}

type resultsResponse struct {
	Standard []store.Result         `json:"standard"`
	Adaptive []store.AdaptiveResult `json:"adaptive"`
}

func (s *Server) listResults(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			badRequest(c, "limit must be an integer between 1 and 500")
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	user := c.Param("user")
	std, err := s.repos.ResultRepo().ListResults(ctx, user, limit)
	if err != nil {
		s.internalError(c, err)
		return
	}
	adp, err := s.repos.ResultRepo().ListAdaptive(ctx, user, limit)
	if err != nil {
		s.internalError(c, err)
		return
	}
	resp := resultsResponse{Standard: std, Adaptive: adp}
	if resp.Standard == nil {
		resp.Standard = []store.Result{}
	}
	if resp.Adaptive == nil {
		resp.Adaptive = []store.AdaptiveResult{}
	}
	success(c, resp)
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	fail(c, http.StatusInternalServerError, "internal server error")
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}
