package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// moveCmd renames an entry or folder.
var moveCmd = &cobra.Command{
	Use:     "move <old-path> <new-path>",
	Aliases: []string{"mv"},
	Short:   "Rename an entry or folder",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.Move(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Moved %s to %s\n", args[0], args[1])
		return nil
	},
}
