package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resellhq/tldpricing/internal/margin/domain"
)

func (s *Server) CalculateMargin(c *gin.Context) {
	var req domain.MarginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.marginSvc.CalculateMargin(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) NegativeMarginReport(c *gin.Context) {
	resp, err := s.marginSvc.NegativeMarginReport(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.MarginReports.WithLabelValues("negative").Inc()
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) LowMarginReport(c *gin.Context) {
	resp, err := s.marginSvc.LowMarginReport(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.MarginReports.WithLabelValues("low").Inc()
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
