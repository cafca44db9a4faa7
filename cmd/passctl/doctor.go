package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// doctorCmd runs setup validation and reports the first failing stage
// with its remediation.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that pass, gpg, keys and the store are correctly set up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status := st.Validate(cmd.Context())
		if status.Valid() {
			fmt.Printf("✓ Setup is valid (store %s, key %s)\n", st.Root(), status.BoundKeyID)
			return nil
		}

		fmt.Printf("✗ Setup check failed: %s\n", status.Stage)
		fmt.Printf("  Next step: %s\n", status.Remediation)
		return fmt.Errorf("setup is not usable yet")
	},
}
