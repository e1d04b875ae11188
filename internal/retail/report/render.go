package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampedPath builds an output path like dir/prefix_ddmmyy_HHMM.csv.
func TimestampedPath(dir, prefix string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.csv", prefix, now.Format("020106_1504")))
}

// computeCSVHeader matches the console table column for column.
var computeCSVHeader = []string{
	"Friendly Name",
	"armSkuName",
	"Currency",
	"Spot Unit Price",
	"PayGo Unit Price",
	"Unit of Measure",
	"Region",
	"Meter Name",
	"Sku Name",
}

// computeCSVRows flattens compute results, one row per spot variant as the
// catalog usually prices Linux and Windows meters separately. A SKU without
// spot variants still gets a single row so its paygo price is not lost.
func computeCSVRows(results []ComputeResult) [][]string {
	var rows [][]string
	for _, r := range results {
		variants := r.SpotVariants
		if len(variants) == 0 {
			variants = []Price{r.Spot}
		}
		for _, v := range variants {
			unit := v.Unit
			if unit == "" {
				unit = r.Paygo.Unit
			}
			rows = append(rows, []string{
				r.FriendlyName,
				r.ArmSkuName,
				r.Currency,
				v.Format(),
				r.Paygo.Format(),
				unit,
				r.Region,
				v.MeterName,
				v.SkuName,
			})
		}
	}
	return rows
}

// WriteComputeCSV writes the VM comparison to path.
func WriteComputeCSV(path string, results []ComputeResult) error {
	return writeCSV(path, computeCSVHeader, computeCSVRows(results))
}

// RenderComputeTable prints the VM comparison as an aligned console table.
func RenderComputeTable(w io.Writer, results []ComputeResult) {
	header := fmt.Sprintf("%-25s %-30s %-8s %-12s %-12s %-12s %-15s %-35s %s",
		"Friendly Name", "armSkuName", "Currency", "Spot", "PayGo", "Unit", "Region", "Meter Name", "Sku Name")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, row := range computeCSVRows(results) {
		fmt.Fprintf(w, "%-25s %-30s %-8s %-12s %-12s %-12s %-15s %-35s %s\n",
			row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7], row[8])
	}
}

// storageCSVHeader matches the console table column for column.
var storageCSVHeader = []string{
	"Friendly Name",
	"Redundancy",
	"Product Name",
	"Capacity (GB)",
	"Currency",
	"PayGo Unit Price",
	"PayGo Monthly @Capacity",
	"RI 1Yr Monthly Equivalent",
	"RI 1Yr Packs",
	"RI 3Yr Monthly Equivalent",
	"RI 3Yr Packs",
	"Unit of Measure",
	"Meter Name",
	"Sku Name",
}

func storageCSVRows(results []StorageResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		unit := r.Paygo.Unit
		if unit == "" {
			unit = r.Reserved1Y.Unit
		}
		if unit == "" {
			unit = r.Reserved3Y.Unit
		}

		meter, sku := r.Paygo.MeterName, r.Paygo.SkuName
		if meter == "" {
			meter, sku = r.Reserved1Y.MeterName, r.Reserved1Y.SkuName
		}

		rows = append(rows, []string{
			r.FriendlyName,
			r.Redundancy,
			r.ProductName,
			r.CapacityGB.String(),
			r.Currency,
			r.Paygo.Format(),
			FormatValue(r.PaygoMonthlyAtCapacity),
			r.Reserved1Y.Format(),
			formatPacks(r.Reserved1Y),
			r.Reserved3Y.Format(),
			formatPacks(r.Reserved3Y),
			unit,
			meter,
			sku,
		})
	}
	return rows
}

// formatPacks renders the pack count behind a reserved quote, or "n/a".
func formatPacks(q ReservedQuote) string {
	if !q.Available {
		return "n/a"
	}
	return fmt.Sprintf("%d x %s TB", q.PacksNeeded, q.PackSizeTB)
}

// WriteStorageCSV writes the storage comparison to path.
func WriteStorageCSV(path string, results []StorageResult) error {
	return writeCSV(path, storageCSVHeader, storageCSVRows(results))
}

// RenderStorageTable prints the storage comparison as an aligned console
// table.
func RenderStorageTable(w io.Writer, results []StorageResult) {
	header := fmt.Sprintf("%-28s %-6s %-30s %-10s %-8s %-12s %-14s %-12s %-14s %-12s %-14s %-14s %-35s %s",
		"Friendly Name", "Type", "Product Name", "Cap(GB)", "Currency",
		"PayGo", "PayGo Est", "RI-1Y/mo", "RI-1Y Packs", "RI-3Y/mo", "RI-3Y Packs",
		"Unit", "Meter Name", "Sku Name")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, row := range storageCSVRows(results) {
		fmt.Fprintf(w, "%-28s %-6s %-30s %-10s %-8s %-12s %-14s %-12s %-14s %-12s %-14s %-14s %-35s %s\n",
			row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7], row[8], row[9], row[10], row[11], row[12], row[13])
	}
}

// writeCSV writes a header and rows to a new file at path.
func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
