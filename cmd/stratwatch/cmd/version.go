package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.2.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the stratwatch CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stratwatch version %s\n", version)
		fmt.Println("In-process risk control for algorithmic trading strategies")
		fmt.Println("https://github.com/rustyeddy/stratwatch")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
