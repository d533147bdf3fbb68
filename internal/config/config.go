// Package config loads the per-run configuration from a YAML file.
// The result is immutable for the duration of an evaluation run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sponsored-bid-lab/internal/domain"
)

// Config holds all run configuration.
type Config struct {
	Run struct {
		Mode          string `yaml:"mode"`           // NORMAL | S_MODE
		ExecutionMode string `yaml:"execution_mode"` // SHADOW | APPLY
		EventSource   string `yaml:"event_source"`   // MANUAL | CALENDAR
		EventMode     string `yaml:"event_mode"`     // manual override: NONE | BIG_SALE_PREP | BIG_SALE_DAY
		Workers       int    `yaml:"workers"`
	} `yaml:"run"`

	Thresholds struct {
		MinClicksForDecision int     `yaml:"min_clicks_for_decision"`
		LowConfidenceClicks  int     `yaml:"low_confidence_clicks"`
		HighConfidenceClicks int     `yaml:"high_confidence_clicks"`
		AcosTargetDefault    float64 `yaml:"acos_target_default"`
		HardStopMultiplier   float64 `yaml:"hard_stop_multiplier"`
		SoftDownMultiplier   float64 `yaml:"soft_down_multiplier"`
	} `yaml:"thresholds"`

	ChangeRate struct {
		MaxNormal       float64 `yaml:"max_normal"`
		MaxSModeDefault float64 `yaml:"max_smode_default"`
		MaxSModeTOS     float64 `yaml:"max_smode_tos"`
	} `yaml:"change_rate"`

	Bid struct {
		Min         float64 `yaml:"min"`
		CPCFloorAbs float64 `yaml:"cpc_floor_abs"`
	} `yaml:"bid"`

	Attribution struct {
		NoConvMinClicks         int     `yaml:"no_conv_min_clicks"`
		NoConvMax30dConversions int     `yaml:"no_conv_max_30d_conversions"`
		AcosHighMult7dExcl      float64 `yaml:"acos_high_mult_7d_excl"`
		AcosHighMult30d         float64 `yaml:"acos_high_mult_30d"`
		RecentGoodCVRRatio      float64 `yaml:"recent_good_cvr_ratio"`
	} `yaml:"attribution"`

	Inventory struct {
		GuardMode        string `yaml:"guard_mode"`          // OFF | ON | STRICT
		OutOfStockPolicy string `yaml:"out_of_stock_policy"` // SET_ZERO | SKIP_RECOMMENDATION
	} `yaml:"inventory"`

	Tacos struct {
		BinWidth        float64 `yaml:"bin_width"`
		MinDaysPerBin   int     `yaml:"min_days_per_bin"`
		MarginPotential float64 `yaml:"margin_potential"`
		LowMargin       float64 `yaml:"low_margin"`
		CeilingOffset   float64 `yaml:"ceiling_offset"`
		Alpha           float64 `yaml:"alpha"`
		MultBase        float64 `yaml:"mult_base"`
		MultMin         float64 `yaml:"mult_min"`
		MultMax         float64 `yaml:"mult_max"`
		OrangeCap       float64 `yaml:"orange_cap"`
	} `yaml:"tacos"`

	Storage struct {
		PostgresDSN   string `yaml:"postgres_dsn"`
		ClickhouseDSN string `yaml:"clickhouse_dsn"`
	} `yaml:"storage"`
}

// Load reads config from a YAML file and fills in defaults. A missing
// file yields the pure defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values from the production baseline.
func (c *Config) applyDefaults() {
	base := domain.DefaultGlobalConfig()
	tacos := domain.DefaultTacosHealthConfig()

	if c.Run.Mode == "" {
		c.Run.Mode = string(domain.ModeNormal)
	}
	if c.Run.ExecutionMode == "" {
		c.Run.ExecutionMode = string(domain.ExecutionShadow)
	}
	if c.Run.EventSource == "" {
		c.Run.EventSource = string(domain.EventSourceManual)
	}
	if c.Run.EventMode == "" {
		c.Run.EventMode = string(domain.EventNone)
	}
	if c.Run.Workers <= 0 {
		c.Run.Workers = 8
	}

	if c.Thresholds.MinClicksForDecision == 0 {
		c.Thresholds.MinClicksForDecision = base.MinClicksForDecision
	}
	if c.Thresholds.LowConfidenceClicks == 0 {
		c.Thresholds.LowConfidenceClicks = base.LowConfidenceClicks
	}
	if c.Thresholds.HighConfidenceClicks == 0 {
		c.Thresholds.HighConfidenceClicks = base.HighConfidenceClicks
	}
	if c.Thresholds.AcosTargetDefault == 0 {
		c.Thresholds.AcosTargetDefault = base.AcosTargetDefault
	}
	if c.Thresholds.HardStopMultiplier == 0 {
		c.Thresholds.HardStopMultiplier = base.HardStopMultiplier
	}
	if c.Thresholds.SoftDownMultiplier == 0 {
		c.Thresholds.SoftDownMultiplier = base.SoftDownMultiplier
	}

	if c.ChangeRate.MaxNormal == 0 {
		c.ChangeRate.MaxNormal = base.MaxChangeRateNormal
	}
	if c.ChangeRate.MaxSModeDefault == 0 {
		c.ChangeRate.MaxSModeDefault = base.MaxChangeRateSModeDefault
	}
	if c.ChangeRate.MaxSModeTOS == 0 {
		c.ChangeRate.MaxSModeTOS = base.MaxChangeRateSModeTOS
	}

	if c.Bid.Min == 0 {
		c.Bid.Min = base.MinBid
	}
	if c.Bid.CPCFloorAbs == 0 {
		c.Bid.CPCFloorAbs = base.AbsoluteCPCFloor
	}

	if c.Attribution.NoConvMinClicks == 0 {
		c.Attribution.NoConvMinClicks = base.NoConvMinClicks
	}
	if c.Attribution.NoConvMax30dConversions == 0 {
		c.Attribution.NoConvMax30dConversions = base.NoConvMax30dConversions
	}
	if c.Attribution.AcosHighMult7dExcl == 0 {
		c.Attribution.AcosHighMult7dExcl = base.AcosHighMult7dExcl
	}
	if c.Attribution.AcosHighMult30d == 0 {
		c.Attribution.AcosHighMult30d = base.AcosHighMult30d
	}
	if c.Attribution.RecentGoodCVRRatio == 0 {
		c.Attribution.RecentGoodCVRRatio = base.RecentGoodCVRRatio
	}

	if c.Inventory.GuardMode == "" {
		c.Inventory.GuardMode = string(domain.InventoryGuardOff)
	}
	if c.Inventory.OutOfStockPolicy == "" {
		c.Inventory.OutOfStockPolicy = string(domain.PolicySetZero)
	}

	if c.Tacos.BinWidth == 0 {
		c.Tacos.BinWidth = tacos.BinWidth
	}
	if c.Tacos.MinDaysPerBin == 0 {
		c.Tacos.MinDaysPerBin = tacos.MinDaysPerBin
	}
	if c.Tacos.MarginPotential == 0 {
		c.Tacos.MarginPotential = tacos.MarginPotential
	}
	if c.Tacos.LowMargin == 0 {
		c.Tacos.LowMargin = tacos.LowMargin
	}
	if c.Tacos.CeilingOffset == 0 {
		c.Tacos.CeilingOffset = tacos.CeilingOffset
	}
	if c.Tacos.Alpha == 0 {
		c.Tacos.Alpha = tacos.Alpha
	}
	if c.Tacos.MultBase == 0 {
		c.Tacos.MultBase = tacos.MultBase
	}
	if c.Tacos.MultMin == 0 {
		c.Tacos.MultMin = tacos.MultMin
	}
	if c.Tacos.MultMax == 0 {
		c.Tacos.MultMax = tacos.MultMax
	}
	if c.Tacos.OrangeCap == 0 {
		c.Tacos.OrangeCap = tacos.OrangeCap
	}
}

// GlobalConfig converts the file representation into the immutable
// run configuration. An unknown mode string falls back to NORMAL.
func (c *Config) GlobalConfig() domain.GlobalConfig {
	base := domain.DefaultGlobalConfig()

	mode := domain.ModeNormal
	if c.Run.Mode == string(domain.ModeS) {
		mode = domain.ModeS
	}

	return domain.GlobalConfig{
		Mode:                      mode,
		MinClicksForDecision:      c.Thresholds.MinClicksForDecision,
		LowConfidenceClicks:       c.Thresholds.LowConfidenceClicks,
		HighConfidenceClicks:      c.Thresholds.HighConfidenceClicks,
		AcosTargetDefault:         c.Thresholds.AcosTargetDefault,
		HardStopMultiplier:        c.Thresholds.HardStopMultiplier,
		SoftDownMultiplier:        c.Thresholds.SoftDownMultiplier,
		MaxChangeRateNormal:       c.ChangeRate.MaxNormal,
		MaxChangeRateSModeDefault: c.ChangeRate.MaxSModeDefault,
		MaxChangeRateSModeTOS:     c.ChangeRate.MaxSModeTOS,
		MinBid:                    c.Bid.Min,
		AbsoluteCPCFloor:          c.Bid.CPCFloorAbs,
		NoConvMinClicks:           c.Attribution.NoConvMinClicks,
		NoConvMax30dConversions:   c.Attribution.NoConvMax30dConversions,
		AcosHighMult7dExcl:        c.Attribution.AcosHighMult7dExcl,
		AcosHighMult30d:           c.Attribution.AcosHighMult30d,
		RecentGoodCVRRatio:        c.Attribution.RecentGoodCVRRatio,
		TOSMinPriorityScore:       base.TOSMinPriorityScore,
		TOSMaxRiskPenalty:         base.TOSMaxRiskPenalty,
		TOSMinCTRxCVR:             base.TOSMinCTRxCVR,
	}
}

// TacosConfig converts the file representation into the TACOS gate
// configuration.
func (c *Config) TacosConfig() domain.TacosHealthConfig {
	return domain.TacosHealthConfig{
		BinWidth:        c.Tacos.BinWidth,
		MinDaysPerBin:   c.Tacos.MinDaysPerBin,
		MarginPotential: c.Tacos.MarginPotential,
		LowMargin:       c.Tacos.LowMargin,
		CeilingOffset:   c.Tacos.CeilingOffset,
		Alpha:           c.Tacos.Alpha,
		MultBase:        c.Tacos.MultBase,
		MultMin:         c.Tacos.MultMin,
		MultMax:         c.Tacos.MultMax,
		OrangeCap:       c.Tacos.OrangeCap,
	}
}
