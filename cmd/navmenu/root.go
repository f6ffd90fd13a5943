package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mchmarny/navmenu/pkg/logger"
)

const defaultConfig = "navmenu.yaml"

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "navmenu",
	Short: "Render and serve hierarchical HTML navigation menus",
	Long: `navmenu builds navigation menus from a YAML definition, marks the item
matching the current request path as active, and renders them as nested HTML lists.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetDefaultLoggerWithLevel("navmenu", version, logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv(logger.EnvVarLogLevel), "Log level (debug, info, warn, error)")
}
