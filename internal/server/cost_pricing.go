package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resellhq/tldpricing/internal/costpricing/domain"
)

func (s *Server) CreateCostPricing(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.costSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCurrentCostPricing(c *gin.Context) {
	registrarTldID := c.Query("registrar_tld_id")
	if registrarTldID == "" {
		AbortWithError(c, domain.ErrInvalidRegistrarTld)
		return
	}
	at, err := timeQuery(c, "at")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.costSvc.GetCurrent(c.Request.Context(), registrarTldID, at)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCostPricingHistory(c *gin.Context) {
	registrarTldID := c.Query("registrar_tld_id")
	if registrarTldID == "" {
		AbortWithError(c, domain.ErrInvalidRegistrarTld)
		return
	}
	includeArchived := c.Query("include_archived") == "true"

	resp, err := s.costSvc.ListHistory(c.Request.Context(), registrarTldID, includeArchived)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFutureCostPricing(c *gin.Context) {
	registrarTldID := c.Query("registrar_tld_id")
	if registrarTldID == "" {
		AbortWithError(c, domain.ErrInvalidRegistrarTld)
		return
	}

	resp, err := s.costSvc.ListFuture(c.Request.Context(), registrarTldID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCostPricing(c *gin.Context) {
	var req domain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.costSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCostPricing(c *gin.Context) {
	if err := s.costSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
