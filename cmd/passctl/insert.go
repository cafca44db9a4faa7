package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dkildau/passctl/pkg/security"
	"github.com/dkildau/passctl/pkg/store"
)

var (
	insertUsername  string
	insertURL       string
	insertTOTP      string
	insertMultiline bool
	insertForce     bool
)

func init() {
	insertCmd.Flags().StringVarP(&insertUsername, "username", "u", "", "Username to store with the entry")
	insertCmd.Flags().StringVar(&insertURL, "url", "", "URL to store with the entry")
	insertCmd.Flags().StringVar(&insertTOTP, "totp", "", "TOTP secret to store with the entry")
	insertCmd.Flags().BoolVarP(&insertMultiline, "multiline", "m", false, "Read the whole entry blob from stdin instead of prompting")
	insertCmd.Flags().BoolVarP(&insertForce, "force", "f", false, "Overwrite an existing entry")
}

// insertCmd creates or overwrites an entry.
var insertCmd = &cobra.Command{
	Use:   "insert <path>",
	Short: "Insert a new entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		var content string
		if insertMultiline {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read entry from stdin: %w", err)
			}
			content = string(data)
		} else {
			password, err := promptPassword(true)
			if err != nil {
				return err
			}
			if strength := security.Assess(password); strength < security.StrengthFair {
				fmt.Fprintf(os.Stderr, "Warning: password strength is %s\n", strength)
			}
			content = store.SerializeContent(store.Fields{
				Password:   password,
				Username:   insertUsername,
				URL:        insertURL,
				TOTPSecret: insertTOTP,
			})
		}

		write := st.Create
		if insertForce {
			write = st.Update
		}
		if err := write(cmd.Context(), path, content); err != nil {
			return err
		}
		fmt.Printf("Entry %s saved\n", path)
		return nil
	},
}

// promptPassword reads a password without echo, optionally with a
// confirmation round. Piped stdin falls back to plain line reads.
func promptPassword(confirm bool) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Print("Enter password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if !confirm {
		return string(first), nil
	}

	fmt.Print("Retype password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
