package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resellhq/tldpricing/internal/archival"
)

func (s *Server) RunArchivalSweep(c *gin.Context) {
	counts, err := s.sweeper.SweepAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"archived": counts}})
}

func (s *Server) RunArchivalFamily(c *gin.Context) {
	family := archival.Family(c.Param("family"))

	archived, err := s.sweeper.ArchiveFamily(c.Request.Context(), family)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"family":   family,
		"archived": archived,
	}})
}
