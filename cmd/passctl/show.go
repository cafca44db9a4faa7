package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkildau/passctl/pkg/store"
)

var (
	showPasswordOnly bool
	showField        string
)

func init() {
	showCmd.Flags().BoolVarP(&showPasswordOnly, "password", "P", false, "Print only the password")
	showCmd.Flags().StringVarP(&showField, "field", "f", "", "Print only one field: password, username, url, totp, notes")
}

// showCmd decrypts and prints one entry.
var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show a decrypted entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := st.GetDetails(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if entry.IsFolder {
			return fmt.Errorf("%s is a folder; use list", args[0])
		}

		if showPasswordOnly {
			fmt.Println(entry.Fields.Password)
			return nil
		}
		if showField != "" {
			return printField(entry.Fields, showField)
		}

		fmt.Println(entry.Fields.Password)
		if entry.Fields.Username != "" {
			fmt.Printf("username: %s\n", entry.Fields.Username)
		}
		if entry.Fields.URL != "" {
			fmt.Printf("url: %s\n", entry.Fields.URL)
		}
		if entry.Fields.TOTPSecret != "" {
			fmt.Println("totp: (secret present, use passctl totp)")
		}
		for _, code := range entry.Fields.RecoveryCodes {
			fmt.Printf("recovery: %s\n", code)
		}
		if entry.Fields.Notes != "" {
			fmt.Println(entry.Fields.Notes)
		}
		return nil
	},
}

func printField(f store.Fields, name string) error {
	var value string
	switch name {
	case "password":
		value = f.Password
	case "username":
		value = f.Username
	case "url":
		value = f.URL
	case "totp":
		value = f.TOTPSecret
	case "notes":
		value = f.Notes
	default:
		return fmt.Errorf("unknown field %q (use password, username, url, totp or notes)", name)
	}
	fmt.Println(value)
	return nil
}
