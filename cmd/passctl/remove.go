package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeForce bool

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip the confirmation prompt")
}

// removeCmd deletes an entry or folder.
var removeCmd = &cobra.Command{
	Use:     "remove <path>",
	Aliases: []string{"rm"},
	Short:   "Remove an entry or folder",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if !removeForce {
			fmt.Printf("Remove %s? [y/N]: ", path)
			var response string
			if _, err := fmt.Scanln(&response); err != nil {
				fmt.Println("Aborted")
				return nil
			}
			if response != "y" && response != "Y" {
				fmt.Println("Aborted")
				return nil
			}
		}

		if err := st.Delete(cmd.Context(), path); err != nil {
			return err
		}
		fmt.Printf("Entry %s removed\n", path)
		return nil
	},
}
