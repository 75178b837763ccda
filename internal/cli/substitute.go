package cli

import (
	"github.com/spf13/cobra"

	"fungen.dev/internal/store"
)

func newSubstituteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "substitute",
		Short: "Manage a template's substitutes",
	}
	cmd.AddCommand(
		newSubstituteAddCmd(),
		newSubstituteListCmd(),
		newSubstituteDeleteCmd(),
		newSubstituteReplaceCmd(),
		newSubstituteCopyCmd(),
	)
	return cmd
}

func newSubstituteAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <template> <body>",
		Short: "Add one substitute body to a template, creating the template if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			receipt, err := e.backing.CreateSubstitute(cmd.Context(), args[0], args[1])
			if err != nil {
				return &exitError{code: 1}
			}
			e.front.Invalidate(args[0])
			printSubstitutes(receipt.Updated)
			return nil
		},
	}
}

func newSubstituteListCmd() *cobra.Command {
	var search string
	var limit int
	cmd := &cobra.Command{
		Use:   "list <template>",
		Short: "List a template's substitutes",
		Args:  cobra.ExactArgs(1),
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
			subs, err := e.backing.ReadSubstitutesFromTemplate(cmd.Context(), args[0], search, store.OrderByNameIgnoreCase(store.Ascending), l)
			if err != nil {
				return &exitError{code: 1}
			}
			printSubstitutes(subs)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Only show substitutes whose body contains this substring")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to return, 0 for unlimited")
	return cmd
}

func newSubstituteDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <template> <body>",
		Short: "Delete one substitute from a template by its body text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			sub, err := e.backing.DeleteSubstituteByName(cmd.Context(), args[0], args[1])
			if err != nil {
				return &exitError{code: 1}
			}
			e.front.Invalidate(args[0])
			printSubstitute(sub)
			return nil
		},
	}
}

func newSubstituteReplaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replace <template> <body> <new-body>",
		Short: "Replace a substitute's body, keeping its identity",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			sub, err := e.backing.UpdateSubstituteByName(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return &exitError{code: 1}
			}
			e.front.Invalidate(args[0])
			printSubstitute(sub)
			return nil
		},
	}
}

func newSubstituteCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <source-template> <destination-template>",
		Short: "Copy every substitute from one template into another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if e.closer != nil {
				defer e.closer()
			}
			receipt, err := e.backing.CopySubstitutesFromTemplateToTemplate(cmd.Context(), args[0], args[1])
			if err != nil {
				return &exitError{code: 1}
			}
			e.front.Invalidate(args[1])
			printSubstitutes(receipt.Updated)
			return nil
		},
	}
}
