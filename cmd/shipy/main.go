// Command shipy scaffolds and operates shipy applications.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shipy",
		Short: "Tools for shipy web applications",
		Long: `shipy creates new applications, generates secrets, runs database
migrations and writes deployment files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCmd(),
		gensecretCmd(),
		dbCmd(),
		deployCmd(),
		versionCmd(),
	)
	return root
}
