// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/truthquest/truthquest/internal/model"
	"github.com/truthquest/truthquest/internal/pipeline"
	"github.com/truthquest/truthquest/internal/quota"
)

// Analyzer is the pipeline surface the HTTP layer depends on
type Analyzer interface {
	Analyze(ctx context.Context, url string, opts pipeline.Options) (*model.AnalysisResult, error)
	Transcript(ctx context.Context, url string, opts pipeline.Options) (*model.Transcript, error)
}

// QuotaChecker reserves one analysis slot for a user, reporting whether the
// user is still within their ceilings
type QuotaChecker interface {
	CheckAndReserve(ctx context.Context, userID string) (bool, error)
}

type Server struct {
	engine *gin.Engine
	cfg    *model.Config
}

// NewServer wires the pipeline and quota store behind the HTTP routes
func NewServer(cfg *model.Config) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	analyzer, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return nil, fmt.Errorf("init pipeline: %w", err)
	}

	quotaStore, err := quota.Open(cfg.Quota)
	if err != nil {
		return nil, fmt.Errorf("init quota store: %w", err)
	}

	return newServer(cfg, analyzer, quotaStore), nil
}

// newServer is the injectable assembly used by tests
func newServer(cfg *model.Config, analyzer Analyzer, quotaStore QuotaChecker) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(RequestLogger())
	engine.Use(CORS(cfg.Server.AllowOrigins))

	api := &API{cfg: cfg, analyzer: analyzer, quota: quotaStore}
	registerRoutes(engine, api, cfg)

	return &Server{engine: engine, cfg: cfg}
}

// Run blocks serving HTTP on the configured port
func (s *Server) Run() error {
	return s.engine.Run(fmt.Sprintf(":%d", s.cfg.Server.Port))
}
