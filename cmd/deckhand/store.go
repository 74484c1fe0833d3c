package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckhandapp/deckhand/internal/auth"
	"github.com/deckhandapp/deckhand/internal/store"
)

var (
	hasStoreToken  = auth.HasStoreToken
	getStoreToken  = auth.GetStoreToken
	saveStoreToken = auth.SaveStoreToken
	delStoreToken  = auth.DeleteStoreToken
	promptForToken = auth.PromptForToken
)

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the plugin-store account token in the OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoreStatus(cmd)
		},
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.AddCommand(
		newStoreLoginCmd(),
		newStoreLogoutCmd(),
		newStoreStatusCmd(),
		newStorePluginsCmd(),
	)
	return cmd
}

func newStorePluginsCmd() *cobra.Command {
	var baseURL string
	var query string

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List plugins available in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := getStoreToken()

			client := store.NewClient(baseURL, token)
			plugins, err := client.ListPlugins(cmd.Context(), query)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(plugins) == 0 {
				fmt.Fprintln(out, "No plugins found.")
				return nil
			}
			for _, p := range plugins {
				fmt.Fprintf(out, "%-24s %-10s %s (%d downloads)\n", p.ID, p.Version, p.Name, p.Downloads)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "store-url", "", "Override the store API base URL")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search term to filter listings")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newStoreLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save the store token to the keychain (prompt only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := promptForToken("Store token: ")
			if err != nil {
				return fmt.Errorf("read token: %w", err)
			}
			if token == "" {
				return fmt.Errorf("empty token")
			}
			if err := saveStoreToken(token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token saved to keychain.")
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newStoreLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the store token from the keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !hasStoreToken() {
				fmt.Fprintln(cmd.OutOrStdout(), "No token stored.")
				return nil
			}
			if err := delStoreToken(); err != nil {
				return fmt.Errorf("delete token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newStoreStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a store token is present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoreStatus(cmd)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runStoreStatus(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	if hasStoreToken() {
		fmt.Fprintln(out, "Store token: present (keychain)")
	} else {
		fmt.Fprintln(out, "Store token: not set")
	}
	return nil
}
