// Package report assembles per-SKU price comparisons from the retail prices
// catalog and renders them as console tables and CSV files.
package report

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/azurecost/retail-price-report/internal/logging"
	"github.com/azurecost/retail-price-report/internal/retail/engine"
)

// VMSKU maps a friendly display name to a vendor SKU identifier.
type VMSKU struct {
	FriendlyName string `json:"friendly_name" mapstructure:"friendly_name"`
	ArmSkuName   string `json:"arm_sku_name" mapstructure:"arm_sku_name"`
}

// MeterSpec describes how to isolate one pricing model's rows for a storage
// class: the catalog product to query plus the meter substrings that pick the
// right rows out of it. Tokens may contain a {redundancy} placeholder.
type MeterSpec struct {
	ProductName      string   `json:"product_name" mapstructure:"product_name"`
	PriceType        string   `json:"price_type,omitempty" mapstructure:"price_type"`
	MeterContainsAll []string `json:"meter_contains_all" mapstructure:"meter_contains_all"`
	CanonicalUnit    string   `json:"canonical_unit,omitempty" mapstructure:"canonical_unit"`
}

// StorageClass configures one storage product's lookup across redundancy
// levels, with pay-as-you-go and reserved-capacity descriptors.
type StorageClass struct {
	// FriendlyName may contain {redundancy} and {region} placeholders.
	FriendlyName  string   `json:"friendly_name" mapstructure:"friendly_name"`
	Region        string   `json:"region,omitempty" mapstructure:"region"`
	ServiceFamily string   `json:"service_family" mapstructure:"service_family"`
	Redundancies  []string `json:"redundancies" mapstructure:"redundancies"`

	// CapacityValue and CapacityUnit set the target capacity priced against
	// reserved packs and the pay-as-you-go monthly estimate.
	CapacityValue float64 `json:"capacity_value" mapstructure:"capacity_value"`
	CapacityUnit  string  `json:"capacity_unit" mapstructure:"capacity_unit"`

	Paygo            MeterSpec `json:"paygo" mapstructure:"paygo"`
	Reserved         MeterSpec `json:"reserved" mapstructure:"reserved"`
	ReservationTerms []string  `json:"reservation_terms" mapstructure:"reservation_terms"`
}

// Config is the full report configuration. It is an explicit value handed to
// the assembler, not process-wide state, so report runs for different regions
// can coexist.
type Config struct {
	Region   string `json:"region" mapstructure:"region"`
	Currency string `json:"currency" mapstructure:"currency"`

	// MaxPages caps pagination per lookup; zero or less means unbounded.
	MaxPages int `json:"max_pages" mapstructure:"max_pages"`

	// TimeoutSeconds bounds each catalog request.
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`

	Logging logging.Config `json:"logging" mapstructure:"logging"`

	VMs     []VMSKU        `json:"vms" mapstructure:"vms"`
	Storage []StorageClass `json:"storage" mapstructure:"storage"`
}

// DefaultReservationTerms are the reservation terms compared by default.
var DefaultReservationTerms = []string{"1 Year", "3 Years"}

// DefaultConfig returns the built-in SKU tables.
func DefaultConfig() Config {
	return Config{
		Region:         "swedencentral",
		Currency:       "USD",
		TimeoutSeconds: 15,
		Logging:        logging.DefaultConfig(),
		VMs: []VMSKU{
			{FriendlyName: "NC16asT4 v3", ArmSkuName: "Standard_NC16as_T4_v3"},
			{FriendlyName: "D96ads v5", ArmSkuName: "Standard_D96ads_v5"},
			{FriendlyName: "NV36ads A10 v5", ArmSkuName: "Standard_NV36ads_A10_v5"},
			{FriendlyName: "D32ads v5", ArmSkuName: "Standard_D32ads_v5"},
			{FriendlyName: "NC24ads_A100_v4", ArmSkuName: "Standard_NC24ads_A100_v4"},
			{FriendlyName: "NC64asT4 v3", ArmSkuName: "Standard_NC64as_T4_v3"},
			{FriendlyName: "E32ads v5", ArmSkuName: "Standard_E32ads_v5"},
		},
		Storage: []StorageClass{
			{
				FriendlyName:  "Blob Hot {redundancy} ({region})",
				ServiceFamily: "Storage",
				Redundancies:  []string{"LRS"},
				CapacityValue: 1000,
				CapacityUnit:  "GB",
				Paygo: MeterSpec{
					ProductName:      "General Block Blob v2",
					MeterContainsAll: []string{"Hot {redundancy}", "Data Stored"},
					CanonicalUnit:    "1 GB/Month",
				},
				Reserved: MeterSpec{
					ProductName:      "Storage Reserved Capacity",
					MeterContainsAll: []string{"Hot", "{redundancy}", "Data Stored"},
				},
				ReservationTerms: DefaultReservationTerms,
			},
		},
	}
}

// Load reads configuration from the given file, layered over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that cannot produce a report. These are the
// only process-fatal conditions; everything after this point degrades per
// lookup instead.
func (c Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if len(c.VMs) == 0 && len(c.Storage) == 0 {
		return fmt.Errorf("at least one VM SKU or storage class must be configured")
	}
	for _, sku := range c.VMs {
		if sku.ArmSkuName == "" {
			return fmt.Errorf("VM SKU %q is missing an armSkuName", sku.FriendlyName)
		}
	}
	for _, sc := range c.Storage {
		if sc.ServiceFamily == "" {
			return fmt.Errorf("storage class %q is missing a service family", sc.FriendlyName)
		}
		if len(sc.Redundancies) == 0 {
			return fmt.Errorf("storage class %q has no redundancy levels", sc.FriendlyName)
		}
		if sc.CapacityValue <= 0 {
			return fmt.Errorf("storage class %q has a non-positive capacity", sc.FriendlyName)
		}
		if _, err := engine.CapacityToTB(decimalFromFloat(sc.CapacityValue), sc.CapacityUnit); err != nil {
			return fmt.Errorf("storage class %q: %w", sc.FriendlyName, err)
		}
		for _, term := range sc.ReservationTerms {
			if _, ok := engine.TermMonths(term); !ok {
				return fmt.Errorf("storage class %q has unknown reservation term %q", sc.FriendlyName, term)
			}
		}
	}
	return nil
}

// expandPlaceholders substitutes {redundancy} and {region} in config
// templates.
func expandPlaceholders(template, redundancy, region string) string {
	out := strings.ReplaceAll(template, "{redundancy}", redundancy)
	return strings.ReplaceAll(out, "{region}", region)
}

// expandTokens applies placeholder expansion to every meter token.
func expandTokens(tokens []string, redundancy, region string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = expandPlaceholders(t, redundancy, region)
	}
	return out
}
