package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/resellhq/tldpricing/internal/archival"
	"github.com/resellhq/tldpricing/internal/config"
	"github.com/resellhq/tldpricing/internal/costpricing"
	costdomain "github.com/resellhq/tldpricing/internal/costpricing/domain"
	"github.com/resellhq/tldpricing/internal/discount"
	discountdomain "github.com/resellhq/tldpricing/internal/discount/domain"
	"github.com/resellhq/tldpricing/internal/exchangerate"
	ratedomain "github.com/resellhq/tldpricing/internal/exchangerate/domain"
	"github.com/resellhq/tldpricing/internal/margin"
	margindomain "github.com/resellhq/tldpricing/internal/margin/domain"
	"github.com/resellhq/tldpricing/internal/observability/metrics"
	"github.com/resellhq/tldpricing/internal/quote"
	quotedomain "github.com/resellhq/tldpricing/internal/quote/domain"
	"github.com/resellhq/tldpricing/internal/registrar"
	registrardomain "github.com/resellhq/tldpricing/internal/registrar/domain"
	"github.com/resellhq/tldpricing/internal/salespricing"
	salesdomain "github.com/resellhq/tldpricing/internal/salespricing/domain"
	"github.com/resellhq/tldpricing/internal/schedule"
	"github.com/resellhq/tldpricing/internal/tld"
	tlddomain "github.com/resellhq/tldpricing/internal/tld/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	metrics.Module,
	fx.Provide(registerGin),
	schedule.Module,
	tld.Module,
	registrar.Module,
	costpricing.Module,
	salespricing.Module,
	discount.Module,
	exchangerate.Module,
	quote.Module,
	margin.Module,
	archival.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware(log))
	r.Use(TracingMiddleware())
	r.Use(MetricsMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	return r
}

func registerGin(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	return NewEngine(log, m)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	tldSvc       tlddomain.Service
	registrarSvc registrardomain.Service
	selector     registrardomain.Selector
	costSvc      costdomain.Service
	salesSvc     salesdomain.Service
	discountSvc  discountdomain.Service
	rateSvc      ratedomain.Service
	converter    ratedomain.Converter
	quoteSvc     quotedomain.Service
	marginSvc    margindomain.Service
	sweeper      *archival.Sweeper
	metrics      *metrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	TldSvc       tlddomain.Service
	RegistrarSvc registrardomain.Service
	Selector     registrardomain.Selector
	CostSvc      costdomain.Service
	SalesSvc     salesdomain.Service
	DiscountSvc  discountdomain.Service
	RateSvc      ratedomain.Service
	Converter    ratedomain.Converter
	QuoteSvc     quotedomain.Service
	MarginSvc    margindomain.Service
	Sweeper      *archival.Sweeper
	Metrics      *metrics.Metrics
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		tldSvc:       p.TldSvc,
		registrarSvc: p.RegistrarSvc,
		selector:     p.Selector,
		costSvc:      p.CostSvc,
		salesSvc:     p.SalesSvc,
		discountSvc:  p.DiscountSvc,
		rateSvc:      p.RateSvc,
		converter:    p.Converter,
		quoteSvc:     p.QuoteSvc,
		marginSvc:    p.MarginSvc,
		sweeper:      p.Sweeper,
		metrics:      p.Metrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- TLDs --------
	api.GET("/tlds", s.ListTlds)
	api.POST("/tlds", s.CreateTld)
	api.GET("/tlds/:id", s.GetTldByID)
	api.PATCH("/tlds/:id/active", s.SetTldActive)

	// -------- Registrars --------
	api.GET("/registrars", s.ListRegistrars)
	api.POST("/registrars", s.CreateRegistrar)
	api.GET("/registrars/:id", s.GetRegistrarByID)
	api.PATCH("/registrars/:id/active", s.SetRegistrarActive)
	api.POST("/registrars/:id/tlds", s.AddRegistrarTld)
	api.PATCH("/registrar_tlds/:id/active", s.SetRegistrarTldActive)
	api.PUT("/registrars/:id/preference", s.SetRegistrarPreference)
	api.GET("/registrars/:id/preference", s.GetRegistrarPreference)
	api.GET("/registrars/selection", s.SelectRegistrar)

	// -------- Cost pricing --------
	api.POST("/cost_pricing", s.CreateCostPricing)
	api.GET("/cost_pricing/current", s.GetCurrentCostPricing)
	api.GET("/cost_pricing/history", s.ListCostPricingHistory)
	api.GET("/cost_pricing/future", s.ListFutureCostPricing)
	api.PATCH("/cost_pricing/:id", s.UpdateCostPricing)
	api.DELETE("/cost_pricing/:id", s.DeleteCostPricing)

	// -------- Sales pricing --------
	api.POST("/sales_pricing", s.CreateSalesPricing)
	api.GET("/sales_pricing/current", s.GetCurrentSalesPricing)
	api.GET("/sales_pricing/history", s.ListSalesPricingHistory)
	api.GET("/sales_pricing/future", s.ListFutureSalesPricing)
	api.PATCH("/sales_pricing/:id", s.UpdateSalesPricing)
	api.DELETE("/sales_pricing/:id", s.DeleteSalesPricing)

	// -------- Discounts --------
	api.POST("/discounts", s.CreateDiscount)
	api.GET("/discounts/current", s.GetCurrentDiscount)
	api.GET("/discounts/history", s.ListDiscountHistory)
	api.GET("/discounts/future", s.ListFutureDiscounts)
	api.PATCH("/discounts/:id", s.UpdateDiscount)
	api.DELETE("/discounts/:id", s.DeleteDiscount)

	// -------- Exchange rates --------
	api.POST("/exchange_rates", s.CreateExchangeRate)
	api.GET("/exchange_rates", s.ListExchangeRates)
	api.POST("/exchange_rates/convert", s.ConvertAmount)

	// -------- Quotes --------
	api.POST("/quotes", s.CalculateQuote)

	// -------- Margins --------
	api.POST("/margins", s.CalculateMargin)
	api.GET("/margins/reports/negative", s.NegativeMarginReport)
	api.GET("/margins/reports/low", s.LowMarginReport)

	// -------- Archival --------
	api.POST("/archival/sweep", s.RunArchivalSweep)
	api.POST("/archival/sweep/:family", s.RunArchivalFamily)
}
