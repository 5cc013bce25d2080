package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PricingConfig holds the engine policy knobs. It is hot-reloadable so
// operators can adjust thresholds without a restart.
type PricingConfig struct {
	// AllowDiscountOnPromotion controls whether reseller discounts stack on
	// top of promotional sales prices.
	AllowDiscountOnPromotion bool `mapstructure:"allowDiscountOnPromotion"`

	// LowMarginThresholdPct classifies margins below this percentage as low.
	LowMarginThresholdPct float64 `mapstructure:"lowMarginThresholdPct"`

	// ConversionMarkupPct is added on top of the raw exchange rate.
	ConversionMarkupPct float64 `mapstructure:"conversionMarkupPct"`

	// MaxScheduleHorizonDays rejects pricing scheduled further out than this.
	// Zero disables the upper bound.
	MaxScheduleHorizonDays int `mapstructure:"maxScheduleHorizonDays"`

	Retention RetentionConfig `mapstructure:"retention"`
}

// RetentionConfig holds per-family archival horizons in years.
type RetentionConfig struct {
	CostPricingYears  int `mapstructure:"costPricingYears"`
	SalesPricingYears int `mapstructure:"salesPricingYears"`
	DiscountYears     int `mapstructure:"discountYears"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		AllowDiscountOnPromotion: false,
		LowMarginThresholdPct:    15,
		ConversionMarkupPct:      2.5,
		MaxScheduleHorizonDays:   365,
		Retention: RetentionConfig{
			CostPricingYears:  5,
			SalesPricingYears: 5,
			DiscountYears:     3,
		},
	}
}

type PricingConfigHolder struct {
	current atomic.Value // holds PricingConfig
}

// NewPricingConfigHolderFrom builds a holder around a fixed config. Tests use
// this to pin policy without touching the filesystem.
func NewPricingConfigHolderFrom(cfg PricingConfig) *PricingConfigHolder {
	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewPricingConfigHolder() (*PricingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/tldpricing/config")
	v.AddConfigPath("/etc/tldpricing")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TLDPRICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPricingConfig()
	v.SetDefault("pricing.allowDiscountOnPromotion", defaults.AllowDiscountOnPromotion)
	v.SetDefault("pricing.lowMarginThresholdPct", defaults.LowMarginThresholdPct)
	v.SetDefault("pricing.conversionMarkupPct", defaults.ConversionMarkupPct)
	v.SetDefault("pricing.maxScheduleHorizonDays", defaults.MaxScheduleHorizonDays)
	v.SetDefault("pricing.retention.costPricingYears", defaults.Retention.CostPricingYears)
	v.SetDefault("pricing.retention.salesPricingYears", defaults.Retention.SalesPricingYears)
	v.SetDefault("pricing.retention.discountYears", defaults.Retention.DiscountYears)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	if err := validatePricingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-config] reload failed: %v", err)
			return
		}
		if err := validatePricingConfig(updated); err != nil {
			log.Printf("[pricing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *PricingConfigHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

// Store swaps the active config atomically. Readers holding the old value
// finish their computation against it.
func (h *PricingConfigHolder) Store(cfg PricingConfig) {
	h.current.Store(cfg)
}

func validatePricingConfig(cfg PricingConfig) error {
	if cfg.LowMarginThresholdPct < 0 {
		return errors.New("pricing.lowMarginThresholdPct cannot be negative")
	}
	if cfg.ConversionMarkupPct < 0 {
		return errors.New("pricing.conversionMarkupPct cannot be negative")
	}
	if cfg.MaxScheduleHorizonDays < 0 {
		return errors.New("pricing.maxScheduleHorizonDays cannot be negative")
	}
	if cfg.Retention.CostPricingYears <= 0 || cfg.Retention.SalesPricingYears <= 0 || cfg.Retention.DiscountYears <= 0 {
		return errors.New("pricing.retention horizons must be positive")
	}
	return nil
}
