package rates

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// scheduleFile is the on-disk layout of a rate schedule:
//
//	versions:
//	  - version: "2024-01"
//	    effective_from: "2024-01-01"
//	    service_fee_rate: "0.06"
//	    food_vat_rate: "0.12"
//	    platform_commission_rate: "0.19"
//	    platform_services_vat_rate: "0.25"
//
// Rates are strings so they never pass through a float.
type scheduleFile struct {
	Versions []versionEntry `yaml:"versions"`
}

type versionEntry struct {
	Version                 string `yaml:"version"`
	EffectiveFrom           string `yaml:"effective_from"`
	ServiceFeeRate          string `yaml:"service_fee_rate"`
	FoodVATRate             string `yaml:"food_vat_rate"`
	PlatformCommissionRate  string `yaml:"platform_commission_rate"`
	PlatformServicesVATRate string `yaml:"platform_services_vat_rate"`
}

// LoadFromFile reads a YAML rate schedule.
func LoadFromFile(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate schedule: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML rate schedule.
func Parse(data []byte) (*Schedule, error) {
	var file scheduleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rate schedule: %w", err)
	}

	versions := make([]Configuration, 0, len(file.Versions))
	for _, e := range file.Versions {
		cfg, err := e.toConfiguration()
		if err != nil {
			return nil, err
		}
		versions = append(versions, cfg)
	}

	return NewSchedule(versions...)
}

func (e versionEntry) toConfiguration() (Configuration, error) {
	effectiveFrom, err := time.Parse("2006-01-02", e.EffectiveFrom)
	if err != nil {
		return Configuration{}, fmt.Errorf("rate version %q: invalid effective_from (expected YYYY-MM-DD): %w", e.Version, err)
	}

	cfg := Configuration{Version: e.Version, EffectiveFrom: effectiveFrom}
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{ServiceFee, e.ServiceFeeRate, &cfg.ServiceFeeRate},
		{FoodVAT, e.FoodVATRate, &cfg.FoodVATRate},
		{PlatformCommission, e.PlatformCommissionRate, &cfg.PlatformCommissionRate},
		{PlatformServicesVAT, e.PlatformServicesVATRate, &cfg.PlatformServicesVATRate},
	}
	for _, f := range fields {
		if f.raw == "" {
			return Configuration{}, fmt.Errorf("rate version %q: %s is required", e.Version, f.name)
		}
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return Configuration{}, fmt.Errorf("rate version %q: invalid %s: %w", e.Version, f.name, err)
		}
		*f.dst = v
	}

	return cfg, nil
}
