package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lottolab/app"
	"lottolab/internal"
)

// Server exposes the analysis engine and draw store over HTTP.
type Server struct {
	router   *gin.Engine
	analysis *app.AnalysisService
	sync     *app.SyncService
	draws    *app.DrawService
	log      *internal.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(analysisSvc *app.AnalysisService, syncSvc *app.SyncService, drawSvc *app.DrawService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:   gin.Default(),
		analysis: analysisSvc,
		sync:     syncSvc,
		draws:    drawSvc,
		log:      logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	analysis := s.router.Group("/analysis")
	{
		analysis.GET("", s.handleCheapAnalysis)
		analysis.GET("/report", s.handleReport)
		analysis.POST("/distribution", s.handleDistribution)
		analysis.POST("/randomness", s.handleRandomness)
	}

	lotto := s.router.Group("/lotto")
	{
		lotto.POST("/sync", s.handleSync)
		lotto.GET("/draws", s.handleListDraws)
		lotto.GET("/draws/latest", s.handleLatestDraw)
	}
}

// Run starts the server on the given port.
func (s *Server) Run(port string) error {
	addr := fmt.Sprintf(":%s", port)
	s.log.Info("listening on %s", addr)
	return s.router.Run(addr)
}

// Handler returns the underlying http.Handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
