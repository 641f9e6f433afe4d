package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gohrm/adapters/eds"
	"gohrm/adapters/export"
	"gohrm/adapters/report"
	"gohrm/adapters/tabular"
	"gohrm/app"
	"gohrm/domain/melt"
	"gohrm/ports"
)

func main() {
	godotenv.Load() // optional .env, environment wins

	rootCmd := &cobra.Command{
		Use:   "hrm",
		Short: "High-resolution melt curve analysis",
	}
	rootCmd.AddCommand(newAnalyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var window int
	var reference int
	var mode string
	var format string
	var outDir string
	var regions []int
	var writeReport bool

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze melt-curve files and write flattened export tables",
		Long: `Analyze one or more melt-curve inputs (.csv, .xlsx or .eds archives).

Each input becomes one export table next to the input (or under --out).
Independent files are analyzed concurrently.

Example: hrm analyze plate1.eds plate2.csv --window 5 --reference 0 --format xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := melt.AnalysisSettings{
				Mode:            melt.NormalizationMode(mode),
				SmoothingWindow: window,
			}
			if cmd.Flags().Changed("reference") {
				settings.ReferenceSample = &reference
			}
			if settings.Mode == melt.ModeManual {
				if len(regions) != 4 {
					return fmt.Errorf("--regions needs four indices: preStart,preEnd,postStart,postEnd")
				}
				settings.ManualRegions = &melt.Regions{
					PreStart:  regions[0],
					PreEnd:    regions[1],
					PostStart: regions[2],
					PostEnd:   regions[3],
				}
			}

			inputs := make([]app.BatchInput, len(args))
			for i, path := range args {
				inputs[i] = app.BatchInput{Name: path, Source: sourceForPath(path)}
			}

			results, err := app.BatchAnalyze(cmd.Context(), inputs, settings)
			if err != nil {
				return err
			}

			exporter := exporterForFormat(format)
			for _, run := range results {
				if err := writeOutputs(run, exporter, format, outDir, writeReport); err != nil {
					return err
				}
				printSummary(cmd, run)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&window, "window", 3, "smoothing window size (1 disables smoothing)")
	cmd.Flags().IntVar(&reference, "reference", 0, "reference sample index for difference curves")
	cmd.Flags().StringVar(&mode, "mode", string(melt.ModeAuto), "normalization mode: auto or manual")
	cmd.Flags().IntSliceVar(&regions, "regions", nil, "manual region indices: preStart,preEnd,postStart,postEnd")
	cmd.Flags().StringVar(&format, "format", "csv", "export format: csv or xlsx")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (defaults to the input's directory)")
	cmd.Flags().BoolVar(&writeReport, "report", false, "also write an HTML run report")
	return cmd
}

// sourceForPath picks the reading source from the file extension
func sourceForPath(path string) ports.ReadingSource {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".eds" || ext == ".zip" {
		return eds.NewArchiveSource(path)
	}
	return tabular.NewReader(path)
}

func exporterForFormat(format string) ports.ResultExporter {
	if format == "xlsx" {
		return export.XLSXExporter{}
	}
	return export.CSVExporter{}
}

func writeOutputs(run app.BatchResult, exporter ports.ResultExporter, format, outDir string, writeReport bool) error {
	base := strings.TrimSuffix(filepath.Base(run.Name), filepath.Ext(run.Name))
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(run.Name)
	}

	exportPath := filepath.Join(dir, base+"_melt."+format)
	if err := exporter.Export(app.FlattenResult(run.Result), exportPath); err != nil {
		return fmt.Errorf("%s: %w", run.Name, err)
	}

	if writeReport {
		html := report.RenderHTML(report.BuildMarkdown(run.Result))
		if err := os.WriteFile(filepath.Join(dir, base+"_report.html"), html, 0o644); err != nil {
			return fmt.Errorf("%s: %w", run.Name, err)
		}
	}
	return nil
}

func printSummary(cmd *cobra.Command, run app.BatchResult) {
	cmd.Printf("%s: %d samples, %d points\n",
		run.Name, len(run.Result.Samples), len(run.Result.Temperatures))
	for i := range run.Result.Samples {
		sm := &run.Result.Samples[i]
		if sm.Tm != nil {
			cmd.Printf("  %-20s Tm %.2f\n", sm.Name, *sm.Tm)
		} else {
			cmd.Printf("  %-20s Tm n/a\n", sm.Name)
		}
	}
	for _, col := range run.Result.Skipped {
		cmd.Printf("  skipped column %s (coverage %.0f%%)\n", col.Name, col.Coverage*100)
	}
}
