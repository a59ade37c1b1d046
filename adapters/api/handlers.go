package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lottolab/internal/analysis"
)

func (s *Server) handleCheapAnalysis(c *gin.Context) {
	snapshot, err := s.analysis.CheapAnalysis(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleReport(c *gin.Context) {
	asHTML := c.Query("format") == "html"
	body, err := s.analysis.Report(c.Request.Context(), asHTML)
	if err != nil {
		abortWithError(c, err)
		return
	}
	contentType := "text/markdown; charset=utf-8"
	if asHTML {
		contentType = "text/html; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, body)
}

func (s *Server) handleDistribution(c *gin.Context) {
	s.runExpensive(c, analysis.SelectDistribution)
}

func (s *Server) handleRandomness(c *gin.Context) {
	s.runExpensive(c, analysis.SelectRandomness)
}

func (s *Server) runExpensive(c *gin.Context, which string) {
	snapshot, err := s.analysis.ExpensiveAnalysis(c.Request.Context(), []string{which})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleSync(c *gin.Context) {
	result, err := s.sync.Sync(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListDraws(c *gin.Context) {
	history, err := s.draws.ListDraws(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(history),
		"draws": history,
	})
}

func (s *Server) handleLatestDraw(c *gin.Context) {
	rec, err := s.draws.LatestDraw(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
