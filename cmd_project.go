package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	flagAge       int
	flagStep      int
	flagHTML      bool
	flagOutDir    string
	flagRetries   int
	flagForce     bool
	flagShiftMin  float64
	flagShiftMax  float64
	flagShiftStep float64
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Print the year-by-year projection",
	RunE:  runProject,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a PDF (or HTML) financial planning report",
	RunE:  runReport,
}

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Show net worth under shifted investment returns",
	RunE:  runSensitivity,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List market index presets for fund returns",
	RunE:  runPresets,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented example plan",
	RunE:  runInit,
}

func init() {
	projectCmd.Flags().IntVar(&flagAge, "age", 0, "Age for allocation and income breakdown (default retirement age)")
	projectCmd.Flags().IntVar(&flagStep, "step", 1, "Show every Nth year of the projection table")

	reportCmd.Flags().BoolVar(&flagHTML, "html", false, "Write an HTML report instead of PDF")
	reportCmd.Flags().StringVarP(&flagOutDir, "out", "o", "", "Output directory (default settings report.output_dir or .)")
	reportCmd.Flags().IntVar(&flagRetries, "retries", 0, "Save attempts (default settings report.retry_attempts)")

	sensitivityCmd.Flags().Float64Var(&flagShiftMin, "min", -2, "Lowest return shift in percentage points")
	sensitivityCmd.Flags().Float64Var(&flagShiftMax, "max", 2, "Highest return shift in percentage points")
	sensitivityCmd.Flags().Float64Var(&flagShiftStep, "step", 1, "Shift step in percentage points")

	initCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Overwrite an existing plan file")

	rootCmd.AddCommand(projectCmd, reportCmd, sensitivityCmd, presetsCmd, initCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	t := loadTranslator(cfg)
	age := flagAge
	if age == 0 {
		age = s.Assumptions.RetirementAge
	}
	if err := validateAge(age, "age"); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	rows := Project(s)
	PrintHeader(w, s)
	PrintProducts(w, s, t)
	PrintProjection(w, rows, flagStep, t)
	PrintTrend(w, rows, t)
	PrintAllocation(w, s, age, t)
	PrintIncomeSources(w, s, age, t)
	return nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	format := FormatPDF
	if flagHTML {
		format = FormatHTML
	}
	attempts := cfg.Report.RetryAttempts
	if flagRetries > 0 {
		attempts = flagRetries
	}
	dir := flagOutDir
	if dir == "" {
		dir = cfg.Report.OutputDir
	}
	if dir == "" {
		dir = "."
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exp := NewExporter(format, attempts)
	exp.Translator = loadTranslator(cfg)
	path, err := exp.Export(ctx, s, dir)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", abs)
	return nil
}

func runSensitivity(cmd *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if flagShiftStep <= 0 {
		return fmt.Errorf("--step must be positive")
	}
	if flagShiftMax < flagShiftMin {
		return fmt.Errorf("--max must not be below --min")
	}
	PrintSensitivity(cmd.OutOrStdout(), RunSensitivityAnalysis(s, flagShiftMin, flagShiftMax, flagShiftStep), loadTranslator(cfg))
	return nil
}

func runPresets(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	periods := ReturnPeriods()
	byRegion := MarketIndicesByRegion()
	regions := make([]string, 0, len(byRegion))
	for r := range byRegion {
		regions = append(regions, r)
	}
	slices.Sort(regions)

	headers := []string{"ID", "Index", "Default"}
	for _, p := range periods {
		headers = append(headers, fmt.Sprintf("%dy", p))
	}
	headers = append(headers, "Volatility")

	for _, region := range regions {
		var rows [][]string
		for _, idx := range byRegion[region] {
			row := []string{idx.ID, idx.Name, FormatPercent(idx.DefaultReturn)}
			for _, p := range periods {
				row = append(row, FormatPercent(idx.ReturnForPeriod(p)))
			}
			row = append(row, idx.Volatility)
			rows = append(rows, row)
		}
		fmt.Fprint(w, RenderTable(Table{Title: region, Headers: headers, Rows: rows}))
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, mutedStyle.Render(`  Use with: finplan product edit <id> returnSource=<ID>`))
	return nil
}

func runInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(flagPlan); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", flagPlan)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if dir := filepath.Dir(flagPlan); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(flagPlan, ExamplePlan(), 0o644); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	log.Printf("[INFO] example plan written: %s", flagPlan)
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s. Edit it, then run: finplan project -p %s\n", flagPlan, strings.ReplaceAll(flagPlan, " ", `\ `))
	return nil
}
