package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/resellhq/tldpricing/internal/exchangerate/domain"
	"github.com/shopspring/decimal"
)

func (s *Server) CreateExchangeRate(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.rateSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListExchangeRates(c *gin.Context) {
	resp, err := s.rateSvc.List(c.Request.Context(), c.Query("base"), c.Query("quote"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type convertRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	From   string          `json:"from" binding:"required"`
	To     string          `json:"to" binding:"required"`
	At     *time.Time      `json:"at"`
}

type convertResponse struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Converted  decimal.Decimal `json:"converted"`
	ToCurrency string          `json:"to_currency"`
}

func (s *Server) ConvertAmount(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	at := time.Now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}

	converted, err := s.converter.Convert(c.Request.Context(), req.Amount, req.From, req.To, at)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": convertResponse{
		Amount:     req.Amount,
		Currency:   req.From,
		Converted:  converted,
		ToCurrency: req.To,
	}})
}
