package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkildau/passctl/pkg/store"
)

// totpCmd prints the current one-time code for an entry.
var totpCmd = &cobra.Command{
	Use:   "totp <path>",
	Short: "Print the current TOTP code for an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := st.GetDetails(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if entry.Fields.TOTPSecret == "" {
			return fmt.Errorf("entry %s has no totp secret", args[0])
		}
		code, err := store.TOTPCode(entry.Fields.TOTPSecret, time.Now())
		if err != nil {
			return err
		}
		fmt.Println(code)
		return nil
	},
}
