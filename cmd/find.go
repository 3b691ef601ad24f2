package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"mcprouter/internal/color"
	"mcprouter/internal/router"
	"mcprouter/pkg/logging"

	"github.com/spf13/cobra"
)

var findLimit int

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Find the tools best matching a free-text request",
	Long: `Ranks the tools of all enabled upstreams against a free-text query and
prints the best candidates with their scores and the tokens that matched.

Example:
  mcprouter find what is the weather forecast`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
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

	query := strings.Join(args, " ")
	ranked := router.Rank(query, registry.ListAllTools(ctx), registry.Definitions(), findLimit)
	if len(ranked) == 0 {
		fmt.Println(color.Warning("No matching tools found"))
		return nil
	}

	for i, candidate := range ranked {
		fmt.Printf("%2d. %s %s %s\n",
			i+1,
			color.Info(candidate.Tool),
			color.Muted("@"+candidate.UpstreamID),
			color.Success(fmt.Sprintf("%.2f", candidate.Score)),
		)
		if candidate.Description != "" {
			fmt.Printf("    %s\n", candidate.Description)
		}
		fmt.Printf("    %s\n", color.Muted(candidate.Reason))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().IntVar(&findLimit, "limit", 10, "Maximum number of candidates to print (0 for all)")
}
