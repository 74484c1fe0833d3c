package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckhandapp/deckhand/internal/profile"
	"github.com/deckhandapp/deckhand/internal/prompt"
)

type profilesOptions struct {
	dir   string
	force bool
}

func newProfilesCmd() *cobra.Command {
	opts := profilesOptions{}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage saved deck profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesList(cmd, &opts)
		},
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "Profile directory (defaults to the user config dir)")

	cmd.AddCommand(
		newProfilesListCmd(&opts),
		newProfilesShowCmd(&opts),
		newProfilesExportCmd(&opts),
		newProfilesDeleteCmd(&opts),
	)
	return cmd
}

func newProfilesExportCmd(opts *profilesOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Write a profile to a shareable JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			dest := out
			if dest == "" {
				dest = args[0] + ".json"
			}
			path, err := store.Export(args[0], dest)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported profile %s to %s.\n", args[0], path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination file (default <name>.json)")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newProfilesListCmd(opts *profilesOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesList(cmd, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newProfilesShowCmd(opts *profilesOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one profile's key layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			p, err := store.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d keys)\n", p.Name, len(p.Keys))
			for _, k := range p.Keys {
				fmt.Fprintf(out, "  %dx%d  %-16q  action=%s\n", k.Col, k.Row, k.Label, k.Action)
			}
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newProfilesDeleteCmd(opts *profilesOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			ok, err := prompt.DefaultConfirmer().ConfirmDelete(args[0], opts.force)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s.\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.force, "yes", "y", false, "Delete without confirmation")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runProfilesList(cmd *cobra.Command, opts *profilesOptions) error {
	store, err := openStore(opts)
	if err != nil {
		return err
	}
	names, err := store.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No profiles saved.")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

func openStore(opts *profilesOptions) (*profile.Store, error) {
	dir := opts.dir
	if dir == "" {
		var err error
		dir, err = profile.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	return profile.NewStore(dir)
}
