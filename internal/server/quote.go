package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resellhq/tldpricing/internal/quote/domain"
)

func (s *Server) CalculateQuote(c *gin.Context) {
	var req domain.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.quoteSvc.CalculatePrice(c.Request.Context(), req)
	if err != nil {
		s.metrics.QuotesTotal.WithLabelValues("error").Inc()
		AbortWithError(c, err)
		return
	}

	s.metrics.QuotesTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
