package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"ngc-ir/packages/compiler-cli/src/driver"
	"ngc-ir/packages/compiler/src/config"
)

var (
	compileOutDir  string
	compileNoCache bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [path]",
	Short: "Compile every component manifest of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompile,
}

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Report template diagnostics without writing output",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	compileCmd.Flags().StringVarP(&compileOutDir, "out", "o", "", "output directory (overrides [output].dir)")
	compileCmd.Flags().BoolVar(&compileNoCache, "no-cache", false, "ignore and do not update the compilation cache")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, projectPath(args))
	if err != nil {
		return err
	}
	if compileOutDir != "" {
		config.WithOutputDir(compileOutDir)(cfg)
	}

	opts := driver.Options{Emit: true}
	if !compileNoCache {
		if opts.Cache, err = driver.OpenDiskCache(cfg.CacheDir()); err != nil {
			return err
		}
	}
	report, err := driver.Compile(cmd.Context(), cfg, opts)
	if err != nil {
		return err
	}
	return summarize(cmd.OutOrStdout(), cfg, report, true)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, projectPath(args))
	if err != nil {
		return err
	}
	report, err := driver.Compile(cmd.Context(), cfg, driver.Options{})
	if err != nil {
		return err
	}
	return summarize(cmd.OutOrStdout(), cfg, report, false)
}

// summarize prints the diagnostics and per-component outcome of report.
// It returns errFailed when anything failed.
func summarize(w io.Writer, cfg *config.CompilerConfig, report *driver.Report, emitted bool) error {
	if len(report.Results) == 0 {
		fmt.Fprintln(w, "No component manifests found")
		return nil
	}

	bag := report.Diagnostics()
	printDiagnostics(w, cfg.Root, bag.Items())

	succeeded := 0
	for i, res := range report.Results {
		status := successColor.Sprint("ok")
		switch {
		case res.Err != nil:
			status = errorColor.Sprint("failed")
			fmt.Fprintf(w, "[%d/%d] %s %s: %v\n", i+1, len(report.Results), res.Name, status, res.Err)
			continue
		case res.Output == "":
			status = errorColor.Sprint("errors")
		default:
			succeeded++
		}
		detail := ""
		if emitted && res.Output != "" {
			detail = " -> " + displayPath(cfg.Root, res.OutputPath)
		}
		if res.Cached {
			detail += " (cached)"
		}
		fmt.Fprintf(w, "[%d/%d] %s %s%s\n", i+1, len(report.Results), res.Name, status, detail)
	}

	verb := "checked"
	if emitted {
		verb = "compiled"
	}
	fmt.Fprintf(w, "%s %d/%d components", verb, succeeded, len(report.Results))
	if n := bag.Len(); n > 0 {
		fmt.Fprintf(w, ", %d diagnostics", n)
	}
	fmt.Fprintln(w)

	if report.Err() != nil {
		return errFailed
	}
	return nil
}

func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
