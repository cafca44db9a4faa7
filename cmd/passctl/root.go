package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkildau/passctl/internal/config"
	"github.com/dkildau/passctl/internal/log"
	"github.com/dkildau/passctl/pkg/audit"
	"github.com/dkildau/passctl/pkg/store"
)

const version = "0.3.0"

var (
	cfg      *config.Config
	st       *store.Store
	auditLog *audit.Logger

	// Persistent flags
	configPath string
	storeRoot  string
)

var rootCmd = &cobra.Command{
	Use:     "passctl",
	Short:   "passctl is a front end for pass, the standard unix password manager",
	Long:    `A fast command-line front end for a GPG-encrypted password store managed by pass.`,
	Version: version,
	// PersistentPreRunE runs before every subcommand and wires the store
	// gateway from configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return err
		}
		log.SetLevel(cfg.Log.Level)

		if cfg.Audit.Enabled {
			auditLog = audit.NewLogger(cfg.Audit.Dir)
		}

		root := storeRoot
		if root == "" {
			root = cfg.Store.Root
		}
		st = store.New(store.Options{
			RootDir:       root,
			PassBin:       cfg.Store.PassBin,
			GPGBin:        cfg.Store.GPGBin,
			Timeout:       cfg.Timeout(),
			CacheCapacity: cfg.Cache.Capacity,
			CacheTTL:      cfg.CacheTTL(),
			Audit:         auditLog,
			Source:        audit.SourceCLI,
		})
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.config/passctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeRoot, "store", "", "Password store directory (default $PASSWORD_STORE_DIR or ~/.password-store)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(totpCmd)
	rootCmd.AddCommand(auditCmd)
}

// initCmd binds the store to a GPG key id.
var initCmd = &cobra.Command{
	Use:   "init <gpg-id>",
	Short: "Initialize the password store with a GPG key id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.InitStore(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Store initialized at %s for key %s\n", st.Root(), args[0])
		return nil
	},
}
