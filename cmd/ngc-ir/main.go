// Command ngc-ir compiles Angular component templates described by
// *.component.toml manifests into ɵcmp definitions.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ngc-ir/packages/compiler-cli/src/logging"
	"ngc-ir/packages/compiler/src/config"
)

var rootCmd = &cobra.Command{
	Use:   "ngc-ir",
	Short: "Angular template compiler",
	Long: `ngc-ir compiles Angular component templates through the template IR
pipeline and emits ɵɵdefineComponent definitions as JavaScript modules.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupOutput,
}

type globalOptions struct {
	configPath string
	logLevel   string
	color      string
	jobs       int
}

var globals globalOptions

// errFailed reports a run whose problems were already printed
var errFailed = errors.New("compilation failed")

func init() {
	rootCmd.Version = Version

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to ngc-ir.toml (default: searched upwards from the project path)")
	rootCmd.PersistentFlags().StringVar(&globals.logLevel, "log-level", "", "log level (trace|debug|info|warn|error); overrides [compiler].logLevel")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().IntVar(&globals.jobs, "jobs", 0, "number of components compiled in parallel (0 = GOMAXPROCS)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorColor.Sprint("error:"), err)
		}
		os.Exit(1)
	}
}

func setupOutput(_ *cobra.Command, _ []string) error {
	switch globals.color {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color %q (want auto, on or off)", globals.color)
	}
	// Until the configuration is loaded only the flag is known.
	return logging.Setup(globals.logLevel, isTerminal(os.Stderr))
}

// loadConfig finds the configuration for the project at path and applies
// the global flags on top of it, then reconfigures logging.
func loadConfig(cmd *cobra.Command, path string) (*config.CompilerConfig, error) {
	var opts []config.CompilerConfigOption
	flags := cmd.Flags()
	if flags.Changed("jobs") {
		opts = append(opts, config.WithJobs(globals.jobs))
	}
	if flags.Changed("log-level") {
		opts = append(opts, config.WithLogLevel(globals.logLevel))
	}

	var cfg *config.CompilerConfig
	var err error
	if globals.configPath != "" {
		cfg, err = config.Load(globals.configPath, opts...)
	} else {
		cfg, err = config.LoadOrDefault(path, opts...)
	}
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(cfg.Compiler.LogLevel, isTerminal(os.Stderr)); err != nil {
		return nil, err
	}
	return cfg, nil
}

func projectPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

// isTerminal reports whether f is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
