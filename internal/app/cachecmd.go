package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the query cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached query results",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildEnv()
		if err != nil {
			return err
		}
		n, err := e.cache.Clear()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d cache entr%s.\n", n, plural(n, "y", "ies"))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
