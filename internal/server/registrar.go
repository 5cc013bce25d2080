package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resellhq/tldpricing/internal/registrar/domain"
)

func (s *Server) CreateRegistrar(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.registrarSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRegistrars(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	resp, err := s.registrarSvc.List(c.Request.Context(), activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRegistrarByID(c *gin.Context) {
	resp, err := s.registrarSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetRegistrarActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.registrarSvc.SetActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addRegistrarTldRequest struct {
	TldID  string `json:"tld_id" binding:"required"`
	Active *bool  `json:"active"`
}

func (s *Server) AddRegistrarTld(c *gin.Context) {
	var req addRegistrarTldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.registrarSvc.AddTld(c.Request.Context(), domain.AddTldRequest{
		RegistrarID: c.Param("id"),
		TldID:       req.TldID,
		Active:      req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetRegistrarTldActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.registrarSvc.SetRelationActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"active": *req.Active}})
}

func (s *Server) SetRegistrarPreference(c *gin.Context) {
	var req domain.PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.RegistrarID = c.Param("id")

	resp, err := s.registrarSvc.SetPreference(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRegistrarPreference(c *gin.Context) {
	resp, err := s.registrarSvc.GetPreference(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SelectRegistrar(c *gin.Context) {
	tldID := c.Query("tld_id")
	if tldID == "" {
		AbortWithError(c, domain.ErrInvalidTld)
		return
	}

	var customerID *string
	if v := c.Query("customer_id"); v != "" {
		customerID = &v
	}

	resp, err := s.selector.SelectOptimalRegistrar(c.Request.Context(), tldID, customerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
