package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"godescribe/app"
	"godescribe/domain/describe"
	"godescribe/internal"
	"godescribe/internal/config"
)

// Defaults are applied to uploads that do not override them
type Defaults struct {
	KeySets   []describe.KeySet
	Delimiter rune
	Sheet     string
	DataPath  string
}

// Server exposes the describe pipeline over HTTP
type Server struct {
	router      *gin.Engine
	options     app.Options
	defaults    Defaults
	maxUpload   int64
	port        string
	logger      *internal.Logger
	shutdownTTL time.Duration
}

// NewServer creates the HTTP server and registers its routes
func NewServer(options app.Options, defaults Defaults, cfg config.ServerConfig, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if defaults.Delimiter == 0 {
		defaults.Delimiter = ','
	}

	s := &Server{
		router:      gin.New(),
		options:     options,
		defaults:    defaults,
		maxUpload:   cfg.MaxUploadMB << 20,
		port:        cfg.Port,
		logger:      logger,
		shutdownTTL: 10 * time.Second,
	}
	s.router.Use(gin.Recovery(), requestLogger(logger))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.POST("/describe", s.handleDescribe)
	v1.POST("/classify", s.handleClassify)
}

// Handler returns the router for embedding or testing
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server on :%s", s.port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTTL)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger logs one line per request
func requestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Zap().Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// NewServerFromConfig builds a server from the loaded configuration
func NewServerFromConfig(cfg *config.Config, codeVersion string, logger *internal.Logger) (*Server, error) {
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}
	keySets, err := cfg.KeySets()
	if err != nil {
		return nil, err
	}

	options := app.Options{
		Engine:      engineCfg,
		Workers:     cfg.Analysis.Workers,
		Columnar:    cfg.Analysis.Layout == "columns",
		CodeVersion: codeVersion,
	}
	defaults := Defaults{
		KeySets:   keySets,
		Delimiter: cfg.Delimiter(),
		Sheet:     cfg.Input.Sheet,
		DataPath:  cfg.Input.DataPath,
	}
	return NewServer(options, defaults, cfg.Server, logger), nil
}
