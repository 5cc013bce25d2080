package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resellhq/tldpricing/internal/discount/domain"
)

func (s *Server) CreateDiscount(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.discountSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCurrentDiscount(c *gin.Context) {
	resellerCompanyID := c.Query("reseller_company_id")
	if resellerCompanyID == "" {
		AbortWithError(c, domain.ErrInvalidReseller)
		return
	}
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

	resp, err := s.discountSvc.GetCurrent(c.Request.Context(), resellerCompanyID, tldID, at)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDiscountHistory(c *gin.Context) {
	resellerCompanyID := c.Query("reseller_company_id")
	if resellerCompanyID == "" {
		AbortWithError(c, domain.ErrInvalidReseller)
		return
	}
	tldID := c.Query("tld_id")
	if tldID == "" {
		AbortWithError(c, domain.ErrInvalidTld)
		return
	}
	includeArchived := c.Query("include_archived") == "true"

	resp, err := s.discountSvc.ListHistory(c.Request.Context(), resellerCompanyID, tldID, includeArchived)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFutureDiscounts(c *gin.Context) {
	resellerCompanyID := c.Query("reseller_company_id")
	if resellerCompanyID == "" {
		AbortWithError(c, domain.ErrInvalidReseller)
		return
	}
	tldID := c.Query("tld_id")
	if tldID == "" {
		AbortWithError(c, domain.ErrInvalidTld)
		return
	}

	resp, err := s.discountSvc.ListFuture(c.Request.Context(), resellerCompanyID, tldID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateDiscount(c *gin.Context) {
	var req domain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.discountSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteDiscount(c *gin.Context) {
	if err := s.discountSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
