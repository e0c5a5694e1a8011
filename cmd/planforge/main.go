package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/tui/theme"
)

const (
	logoText1 = "█▀█ █   ▄▀█ █▄ █ █▀▀ █▀█ █▀█ █▀▀ █▀▀"
	logoText2 = "█▀▀ █▄▄ █▀█ █ ▀█ █▀  █▄█ █▀▄ █▄█ ██▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "planforge",
	Short: "Terminal editor for subscription plans with embedded persistence",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

planforge is a terminal wizard for building and maintaining subscription
plans: pricing, feature limits, add-on assignments, and support SLAs.
Records and in-progress drafts persist in embedded NATS JetStream, so
unsaved work survives a crash and is offered back on the next run.`

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(setupCmd)
}
