package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkildau/passctl/internal/cli"
	"github.com/dkildau/passctl/pkg/store"
)

var (
	listPattern string
	listTree    bool
)

func init() {
	listCmd.Flags().StringVarP(&listPattern, "pattern", "p", "", "Glob pattern to filter entries ('*' stays within a folder, '**' crosses folders)")
	listCmd.Flags().BoolVarP(&listTree, "tree", "t", false, "Print the hierarchy as an indented tree")
}

// listCmd lists entry paths, flat or as a tree.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries in the password store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := st.List()
		if err != nil {
			return err
		}
		paths, err = cli.FilterPaths(paths, listPattern)
		if err != nil {
			return err
		}

		if len(paths) == 0 {
			fmt.Println("No entries found")
			return nil
		}

		if listTree {
			printTree(store.BuildTree(paths), 0)
			return nil
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	},
}

func printTree(n *store.Node, depth int) {
	for _, child := range n.Children {
		name := child.Name
		if child.IsFolder {
			name += "/"
		}
		fmt.Printf("%s%s\n", strings.Repeat("  ", depth), name)
		printTree(child, depth+1)
	}
}
