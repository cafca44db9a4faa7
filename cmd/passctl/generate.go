package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkildau/passctl/pkg/security"
	"github.com/dkildau/passctl/pkg/store"
)

var (
	generateLength    int
	generateNoSymbols bool
	generateForce     bool
	generatePrint     bool
)

func init() {
	generateCmd.Flags().IntVarP(&generateLength, "length", "l", security.DefaultGeneratedLength, "Generated password length")
	generateCmd.Flags().BoolVarP(&generateNoSymbols, "no-symbols", "n", false, "Generate from letters and digits only")
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "Overwrite an existing entry")
	generateCmd.Flags().BoolVarP(&generatePrint, "print", "p", false, "Print the generated password")
}

// generateCmd creates an entry with a freshly generated password.
var generateCmd = &cobra.Command{
	Use:   "generate <path>",
	Short: "Generate a password and store it as a new entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		password, err := security.Generate(generateLength, !generateNoSymbols)
		if err != nil {
			return err
		}
		content := store.SerializeContent(store.Fields{Password: password})

		write := st.Create
		if generateForce {
			write = st.Update
		}
		if err := write(cmd.Context(), path, content); err != nil {
			return err
		}

		if generatePrint {
			fmt.Println(password)
		} else {
			fmt.Printf("Generated a %d character password for %s\n", generateLength, path)
		}
		return nil
	},
}
