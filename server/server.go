// Package server exposes the pre-edit scan over HTTP.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/storyreel/preedit-pipeline/config"
	"github.com/storyreel/preedit-pipeline/orchestrator"
	"github.com/storyreel/preedit-pipeline/transcribe"
)

// Pinger is a dependency checked by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Router      *gin.Engine
	cfg         *config.Root
	pipeline    *orchestrator.Pipeline
	transcriber transcribe.Transcriber
	cache       Pinger
	log         logrus.FieldLogger
}

type Option func(*Server)

// WithCache reports the cache on /health.
func WithCache(p Pinger) Option { return func(s *Server) { s.cache = p } }

func WithLogger(l logrus.FieldLogger) Option { return func(s *Server) { s.log = l } }

func New(c *config.Root, p *orchestrator.Pipeline, tr transcribe.Transcriber, opts ...Option) *Server {
	s := &Server{
		cfg:         c,
		pipeline:    p,
		transcriber: tr,
		log:         logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(s)
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), s.cors())
	s.Router = router
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.Router.GET("/health", s.health)

	api := s.Router.Group("/api")
	{
		api.POST("/pre-edit-scan", s.preEditScan)
		api.POST("/transcription", s.transcription)
		api.POST("/projects/scan", s.projectScan)
	}
}

func (s *Server) Run() error {
	s.log.WithField("addr", s.cfg.Server.Addr).Info("server listening")
	return s.Router.Run(s.cfg.Server.Addr)
}

func (s *Server) health(c *gin.Context) {
	if s.cache != nil {
		if err := s.cache.Ping(c.Request.Context()); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "healthy", "cache": "connected"})
		return
	}
	c.JSON(200, gin.H{"status": "healthy"})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("request")
	}
}

func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", s.cfg.Server.AllowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
