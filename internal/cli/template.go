package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fungen.dev/internal/store"
)

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage templates",
	}
	cmd.AddCommand(
		newTemplateCreateCmd(),
		newTemplateListCmd(),
		newTemplateRenameCmd(),
		newTemplateDeleteCmd(),
	)
	return cmd
}

func newTemplateCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			t, err := e.backing.CreateTemplate(cmd.Context(), args[0])
			if err != nil {
				return &exitError{code: 1}
			}
			printTemplate(t)
			return nil
		},
	}
}

func newTemplateListCmd() *cobra.Command {
	var search string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			l := store.LimitNone()
			if limit > 0 {
				l = store.LimitCount(limit)
			}
			templates, err := e.backing.ReadTemplates(cmd.Context(), search, store.OrderByNameIgnoreCase(store.Ascending), l)
			if err != nil {
				return &exitError{code: 1}
			}
			printTemplates(templates)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Only show templates whose name contains this substring")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to return, 0 for unlimited")
	return cmd
}

func newTemplateRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a template and rewrite every referencing substitute body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			t, err := e.renamer.RenameByName(cmd.Context(), args[0], args[1])
			if err != nil {
				fmt.Println(err)
				return &exitError{code: 1}
			}
			printTemplate(t)
			return nil
		},
	}
}

func newTemplateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a template and all of its substitutes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			t, err := e.backing.DeleteTemplateByName(cmd.Context(), args[0])
			if err != nil {
				return &exitError{code: 1}
			}
			e.front.Invalidate(args[0])
			printTemplate(t)
			return nil
		},
	}
}
