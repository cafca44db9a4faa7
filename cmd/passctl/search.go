package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// searchCmd greps decrypted entry contents via the backing tool.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search entry contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches, err := st.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("No matches")
			return nil
		}
		for _, m := range matches {
			fmt.Println(m)
		}
		return nil
	},
}
