package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"mcprouter/internal/color"
	"mcprouter/pkg/logging"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools available across the configured upstreams",
	Long: `Connects to every enabled upstream MCP server, fetches its tool list and
prints the tools grouped by upstream. Upstreams that cannot be reached are
reported as empty.`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelWarn, os.Stderr)

	registry, _, err := buildRegistry()
	if err != nil {
		return err
	}
	defer registry.CloseAll()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	allTools := registry.ListAllTools(ctx)
	defs := registry.Definitions()

	if len(allTools) == 0 {
		fmt.Println(color.Warning("No upstreams configured. Add them to .mcprouter/config.yaml."))
		return nil
	}

	for _, id := range registry.IDs() {
		def := defs[id]
		tools := allTools[id]

		fmt.Printf("%s (%d tools)\n", color.Header(def.Label()), len(tools))
		if def.Description != "" {
			fmt.Printf("  %s\n", color.Muted(def.Description))
		}

		sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
		for _, tool := range tools {
			if tool.Description != "" {
				fmt.Printf("  %s  %s\n", color.Info(tool.Name), color.Muted(tool.Description))
			} else {
				fmt.Printf("  %s\n", color.Info(tool.Name))
			}
		}
		fmt.Println()
	}

	return nil
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
