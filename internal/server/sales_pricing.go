package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resellhq/tldpricing/internal/salespricing/domain"
)

func (s *Server) CreateSalesPricing(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.salesSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCurrentSalesPricing(c *gin.Context) {
	tldID := c.Query("tld_id")
	if tldID == "" {
		AbortWithError(c, domain.ErrInvalidTld)
		return
	}
	at, err := timeQuery(c, "at")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.salesSvc.GetCurrent(c.Request.Context(), tldID, at)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSalesPricingHistory(c *gin.Context) {
	tldID := c.Query("tld_id")
	if tldID == "" {
		AbortWithError(c, domain.ErrInvalidTld)
		return
	}
	includeArchived := c.Query("include_archived") == "true"

	resp, err := s.salesSvc.ListHistory(c.Request.Context(), tldID, includeArchived)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFutureSalesPricing(c *gin.Context) {
	tldID := c.Query("tld_id")
	if tldID == "" {
		AbortWithError(c, domain.ErrInvalidTld)
		return
	}

	resp, err := s.salesSvc.ListFuture(c.Request.Context(), tldID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateSalesPricing(c *gin.Context) {
	var req domain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.salesSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSalesPricing(c *gin.Context) {
	if err := s.salesSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
