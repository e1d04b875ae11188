// Package main provides the CLI entry point for the retail price report tool.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/azurecost/retail-price-report/internal/logging"
	"github.com/azurecost/retail-price-report/internal/retail/client"
	"github.com/azurecost/retail-price-report/internal/retail/report"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configPath string
	regionFlag string
	currency   string
	outputDir  string
	maxPages   int
	logLevel   string
	noCSV      bool
)

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "azprices",
		Short: "Compare Azure retail prices across commercial models",
		Long: `Queries the public Azure Retail Prices API for configured VM and storage
SKUs, resolves spot, pay-as-you-go and reserved-capacity pricing, and emits
a comparison table to the console and a timestamped CSV file.`,
		Version: version,
	}

	vmsCmd := &cobra.Command{
		Use:   "vms",
		Short: "Report spot and pay-as-you-go prices for configured VM SKUs",
		RunE:  runVMs,
	}

	storageCmd := &cobra.Command{
		Use:   "storage",
		Short: "Report pay-as-you-go and reserved-capacity storage prices",
		Long: `Resolves pay-as-you-go storage pricing and reserved-capacity pack pricing
for each configured storage class, amortizing reservation terms to a
monthly-equivalent cost at the configured capacity.`,
		RunE: runStorage,
	}

	probeCmd := &cobra.Command{
		Use:   "probe <service-family> [hint]",
		Short: "Show a sample of catalog rows for filter debugging",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runProbe,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&regionFlag, "region", "", "ARM region name (overrides config)")
	rootCmd.PersistentFlags().StringVar(&currency, "currency", "", "Currency code (overrides config)")
	rootCmd.PersistentFlags().IntVar(&maxPages, "max-pages", 0, "Page budget per lookup, 0 for unbounded")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Minimum log level (debug, info, warn, error)")

	vmsCmd.Flags().StringVar(&outputDir, "output-dir", ".", "Directory for the CSV output")
	vmsCmd.Flags().BoolVar(&noCSV, "no-csv", false, "Skip CSV output")
	storageCmd.Flags().StringVar(&outputDir, "output-dir", ".", "Directory for the CSV output")
	storageCmd.Flags().BoolVar(&noCSV, "no-csv", false, "Skip CSV output")

	rootCmd.AddCommand(vmsCmd)
	rootCmd.AddCommand(storageCmd)
	rootCmd.AddCommand(probeCmd)

	return rootCmd
}

// setup loads configuration, applies flag overrides and wires the catalog
// client and assembler.
func setup() (report.Config, *report.Assembler, error) {
	cfg, err := report.Load(configPath)
	if err != nil {
		return report.Config{}, nil, err
	}
	if regionFlag != "" {
		cfg.Region = regionFlag
	}
	if currency != "" {
		cfg.Currency = currency
	}
	if maxPages > 0 {
		cfg.MaxPages = maxPages
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return report.Config{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	zl, err := logging.New(cfg.Logging)
	if err != nil {
		return report.Config{}, nil, fmt.Errorf("initializing logging: %w", err)
	}
	logger := logging.NewClientLogger(zl)

	clientCfg := client.DefaultConfig(cfg.Currency)
	if cfg.TimeoutSeconds > 0 {
		clientCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	clientCfg.Logger = logger

	c, err := client.New(clientCfg)
	if err != nil {
		return report.Config{}, nil, fmt.Errorf("creating catalog client: %w", err)
	}

	return cfg, report.NewAssembler(c, cfg, logger), nil
}

func runVMs(cmd *cobra.Command, _ []string) error {
	_, assembler, err := setup()
	if err != nil {
		return err
	}

	results := assembler.ComputeReport(cmd.Context())
	report.RenderComputeTable(cmd.OutOrStdout(), results)

	if noCSV {
		return nil
	}
	path := report.TimestampedPath(outputDir, "spot_prices", time.Now())
	if err := report.WriteComputeCSV(path, results); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nCSV written to %s\n", path)
	return nil
}

func runStorage(cmd *cobra.Command, _ []string) error {
	_, assembler, err := setup()
	if err != nil {
		return err
	}

	results := assembler.StorageReport(cmd.Context())
	report.RenderStorageTable(cmd.OutOrStdout(), results)

	if noCSV {
		return nil
	}
	path := report.TimestampedPath(outputDir, "storage_prices", time.Now())
	if err := report.WriteStorageCSV(path, results); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nCSV written to %s\n", path)
	return nil
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, assembler, err := setup()
	if err != nil {
		return err
	}

	hint := ""
	if len(args) > 1 {
		hint = args[1]
	}

	samples, err := assembler.ProbeSamples(cmd.Context(), cfg.Region, args[0], hint, 10)
	if err != nil {
		return fmt.Errorf("probing catalog: %w", err)
	}
	if len(samples) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No catalog rows found.")
		return nil
	}
	for _, s := range samples {
		fmt.Fprintf(cmd.OutOrStdout(), "product=%s, sku=%s, meter=%s, priceType=%s\n",
			s.ProductName, s.SkuName, s.MeterName, s.PriceType)
	}
	return nil
}

func main() {
	ctx := context.Background()
	rootCmd := buildRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
