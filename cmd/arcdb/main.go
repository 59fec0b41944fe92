// Command arcdb is the arcdb database's server and interactive client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcdb/arc/internal/applog"
	"github.com/arcdb/arc/internal/config"
)

func main() {
	var cfg config.Config

	root := &cobra.Command{
		Use:   "arcdb",
		Short: "arcdb is a small teaching-grade ARIES-style relational storage engine",
	}
	config.BindFlags(root, &cfg)

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level, err := parseLevel(cfg.LogLevel)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		applog.SetLevel(level)
	}

	root.AddCommand(newServeCmd(&cfg))
	root.AddCommand(newReplCmd(&cfg))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
