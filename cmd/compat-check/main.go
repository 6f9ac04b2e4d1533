// Command compat-check evaluates a stock list against a trait catalog and
// prints the directional compatibility matrix. It exits non-zero when any
// pairing is incompatible, which makes it usable as a CI gate for catalog
// and stocking-plan edits.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"aquacore/pkg/compat"
)

var exitFunc = os.Exit

func main() {
	exitFunc(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("compat-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	catalogPath := fs.String("catalog", "", "path to trait catalog (json or yaml)")
	stockPath := fs.String("stock", "", "path to stock list json")
	water := fs.String("water", "freshwater", "tank water type: freshwater|saltwater|brackish")
	volume := fs.Float64("volume", 0, "tank volume in liters (0 disables volume checks)")
	asJSON := fs.Bool("json", false, "emit the full report as json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *catalogPath == "" || *stockPath == "" {
		fmt.Fprintln(stderr, "compat-check: -catalog and -stock are required")
		fs.Usage()
		return 2
	}

	catalog, err := compat.LoadCatalogFile(*catalogPath)
	if err != nil {
		fmt.Fprintf(stderr, "compat-check: load catalog: %v\n", err)
		return 2
	}
	stock, err := loadStock(*stockPath)
	if err != nil {
		fmt.Fprintf(stderr, "compat-check: load stock: %v\n", err)
		return 2
	}

	engine := compat.NewEngine(compat.NewCatalogRef(catalog))
	report := engine.Evaluate(stock, compat.TankContext{
		WaterType: compat.WaterType(*water),
		VolumeL:   *volume,
	})

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(stderr, "compat-check: encode report: %v\n", err)
			return 2
		}
	} else {
		printReport(stdout, report)
	}

	if report.Worst() == compat.Incompatible {
		return 1
	}
	return 0
}

func loadStock(path string) ([]compat.StockEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var stock []compat.StockEntry
	if err := json.Unmarshal(data, &stock); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(stock) == 0 {
		return nil, fmt.Errorf("stock list %s is empty", path)
	}
	return stock, nil
}

func printReport(w io.Writer, report compat.Report) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprint(tw, "species")
	for _, sp := range report.Species {
		fmt.Fprintf(tw, "\t%s", sp.DisplayName)
	}
	fmt.Fprintln(tw)
	for i, sp := range report.Species {
		fmt.Fprint(tw, sp.DisplayName)
		for j := range report.Species {
			fmt.Fprintf(tw, "\t%s", cellLabel(report.Cells[i][j], i == j))
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()

	unresolved := 0
	for _, sp := range report.Species {
		if !sp.Resolved() {
			unresolved++
			fmt.Fprintf(w, "unknown species: %s\n", sp.DisplayName)
		}
	}

	alerts := report.Alerts()
	if len(alerts) == 0 && unresolved == 0 {
		fmt.Fprintln(w, "no findings")
		return
	}
	for _, f := range alerts {
		fmt.Fprintf(w, "%s: %s -> %s (%s)\n", f.Level, f.SpeciesA, f.SpeciesB, f.Key)
	}
}

func cellLabel(cell compat.Cell, diagonal bool) string {
	if diagonal {
		return "-"
	}
	if !cell.Assessed {
		return "?"
	}
	return cell.Severity.String()
}
