package main

import (
	"os"

	"github.com/aretw0/ussdsim/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse and validate response catalogs",
}

var catalogLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the known codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		st, err := loadStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		defer st.Close()
		return cli.PrintCatalog(cmd.OutOrStdout(), st.Catalog.Search(search))
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show the screens of a code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		defer st.Close()
		rich := term.IsTerminal(int(os.Stdout.Fd()))
		return cli.ShowEntry(cmd.OutOrStdout(), st.Catalog, args[0], rich)
	},
}

var catalogGraphCmd = &cobra.Command{
	Use:   "graph <code>",
	Short: "Print the menu tree of a code as a Mermaid flowchart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		defer st.Close()
		return cli.GraphEntry(cmd.OutOrStdout(), st.Catalog, args[0])
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a catalog file for malformed codes and menu errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ValidateCatalog(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLsCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogGraphCmd)
	catalogCmd.AddCommand(catalogValidateCmd)

	catalogLsCmd.Flags().StringP("search", "s", "", "Filter by code, description or category")
}
