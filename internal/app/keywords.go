package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Manage stored search keywords",
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keywords",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildEnv()
		if err != nil {
			return err
		}
		keywords := e.keywords.Load(flagUser)
		if len(keywords) == 0 {
			fmt.Println("No keywords stored.")
			return nil
		}
		for i, kw := range keywords {
			fmt.Printf("%d. %s\n", i+1, kw)
		}
		return nil
	},
}

var keywordsAddCmd = &cobra.Command{
	Use:   "add <keyword>...",
	Short: "Add keywords",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildEnv()
		if err != nil {
			return err
		}
		keywords, err := e.keywords.Add(flagUser, args...)
		if err != nil {
			return err
		}
		fmt.Printf("Stored %d keyword(s).\n", len(keywords))
		return nil
	},
}

var keywordsRemoveCmd = &cobra.Command{
	Use:   "remove <keyword>",
	Short: "Remove a keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildEnv()
		if err != nil {
			return err
		}
		keywords, err := e.keywords.Remove(flagUser, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Removed %q; %d keyword(s) remain.\n", args[0], len(keywords))
		return nil
	},
}

func init() {
	keywordsCmd.AddCommand(keywordsListCmd)
	keywordsCmd.AddCommand(keywordsAddCmd)
	keywordsCmd.AddCommand(keywordsRemoveCmd)
}
