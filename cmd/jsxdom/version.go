package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// markupModules are the libraries whose versions decide rendered output.
var markupModules = []string{
	"golang.org/x/net",
	"github.com/yosssi/gohtml",
}

type buildInfo struct {
	Version   string            `json:"version"`
	Commit    string            `json:"commit"`
	Built     string            `json:"built"`
	GoVersion string            `json:"goVersion"`
	Platform  string            `json:"platform"`
	Markup    map[string]string `json:"markup,omitempty"`
}

func currentBuild() buildInfo {
	info := buildInfo{
		Version:   version,
		Commit:    commit,
		Built:     date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, dep := range bi.Deps {
		for _, path := range markupModules {
			if dep.Path == path {
				if info.Markup == nil {
					info.Markup = make(map[string]string)
				}
				info.Markup[path] = dep.Version
			}
		}
	}
	return info
}

func versionCmd() *cobra.Command {
	var (
		short  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the jsxdom version together with the Go toolchain and the
markup libraries it was built against.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short && asJSON {
				return usageError("--short and --json cannot be combined")
			}
			info := currentBuild()
			w := cmd.OutOrStdout()
			switch {
			case short:
				fmt.Fprintln(w, info.Version)
				return nil
			case asJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			printBuild(w, info)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")

	return cmd
}

func printBuild(w io.Writer, info buildInfo) {
	fmt.Fprint(w, banner)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Version:    %s\n", info.Version)
	fmt.Fprintf(w, "  Commit:     %s\n", info.Commit)
	fmt.Fprintf(w, "  Built:      %s\n", info.Built)
	fmt.Fprintf(w, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(w, "  OS/Arch:    %s\n", info.Platform)
	for _, path := range markupModules {
		if v, ok := info.Markup[path]; ok {
			fmt.Fprintf(w, "  %s %s\n", strings.TrimPrefix(path, "github.com/"), v)
		}
	}
	fmt.Fprintln(w)
}
