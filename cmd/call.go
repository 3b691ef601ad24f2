package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"mcprouter/internal/color"
	"mcprouter/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

var callArgs []string

var callCmd = &cobra.Command{
	Use:   "call <upstream> <tool>",
	Short: "Invoke a tool on a specific upstream",
	Long: `Connects to the named upstream MCP server and invokes one of its tools.
Arguments are passed with repeated --arg key=value flags; values are parsed
as JSON where possible, otherwise treated as strings.

Example:
  mcprouter call calculator add --arg a=40 --arg b=2`,
	Args: cobra.ExactArgs(2),
	RunE: runCall,
}

func runCall(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelWarn, os.Stderr)

	toolArgs, err := parseToolArgs(callArgs)
	if err != nil {
		return err
	}

	registry, _, err := buildRegistry()
	if err != nil {
		return err
	}
	defer registry.CloseAll()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := registry.CallTool(ctx, args[0], args[1], toolArgs)
	if err != nil {
		return fmt.Errorf("tool call failed: %w", err)
	}

	for _, content := range result.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			fmt.Println(text.Text)
		}
	}

	if result.IsError {
		return fmt.Errorf("%s", color.Error("tool returned an error"))
	}
	return nil
}

// parseToolArgs turns key=value pairs into a tool argument map. Values are
// parsed as JSON where possible so numbers, booleans and objects survive.
func parseToolArgs(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	args := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid argument %q, expected key=value", pair)
		}

		var parsed interface{}
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		args[key] = parsed
	}
	return args, nil
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringArrayVar(&callArgs, "arg", nil, "Tool argument as key=value (repeatable)")
}
