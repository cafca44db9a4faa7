package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncPushCmd)
}

// syncCmd is the parent command for git synchronization.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the store with its git remote",
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull remote changes into the store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.SyncPull(cmd.Context()); err != nil {
			return err
		}
		// Remote changes invalidate everything we decrypted before.
		st.Cache().Clear()
		fmt.Println("Store updated from remote")
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push local changes to the remote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.SyncPush(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Store pushed to remote")
		return nil
	},
}
