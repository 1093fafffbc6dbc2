package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// Build metadata, overridden at build time via -ldflags.
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printVersion(cmd.OutOrStdout(), strings.ToLower(versionFormat))
	},
}

func printVersion(w io.Writer, format string) error {
	payload := versionPayload{Tool: "ngc-ir", Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
		fmt.Fprintf(w, "%s %s\n", payload.Tool, successColor.Sprint(payload.Version))
		if payload.GitCommit != "" {
			fmt.Fprintf(w, "commit: %s\n", payload.GitCommit)
		}
		if payload.BuildDate != "" {
			fmt.Fprintf(w, "built:  %s\n", payload.BuildDate)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q (want pretty or json)", format)
}
