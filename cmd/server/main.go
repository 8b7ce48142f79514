// @title           System Biblioteczny API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /
package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "system-biblioteczny/docs"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Library management server",
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newInitDBCommand(),
		newCreateUserCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
