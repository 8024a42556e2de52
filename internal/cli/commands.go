package cli

import (
	"errors"
	"fmt"

	"github.com/faas3/faas3-cli/internal/app"
	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/faasapi"
	"github.com/faas3/faas3-cli/internal/project"
	"github.com/spf13/cobra"
)

// usageArgs turns cobra's positional argument errors into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func (r *root) createCommand() *cobra.Command {
	var template, owner, parent string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a function project",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.application(cmd)
			if err != nil {
				return err
			}
			created, err := a.Create(cmd.Context(), project.CreateOptions{
				Parent:   parent,
				Name:     args[0],
				Template: template,
				Owner:    owner,
			})
			if err != nil {
				return err
			}
			renderCreated(cmd.OutOrStdout(), created, owner)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Function template: 'deno' or 'node'.")
	cmd.Flags().StringVarP(&owner, "owner", "o", "", "Sui address written to config.toml as the function owner.")
	cmd.Flags().StringVar(&parent, "dir", "", "Directory to create the project in (default: current directory).")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func (r *root) deployCommand() *cobra.Command {
	var opts app.DeployOptions

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the function in the current project to the runtime",
		Long: `Deploy reads config.toml and the template's source file from the project
directory and uploads them to the faas3 runtime. With --mint the function is
first recorded on chain and the created object id is uploaded with it.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := r.application(cmd)
			if err != nil {
				return err
			}
			dep, err := a.Deploy(cmd.Context(), opts)
			if dep != nil {
				renderDeployment(cmd.OutOrStdout(), dep)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Project directory (default: current directory).")
	cmd.Flags().BoolVar(&opts.Mint, "mint", false, "Mint the function on chain before uploading it.")
	return cmd
}

func (r *root) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the function locally",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "This command is still WIP")
			return nil
		},
	}
}

func (r *root) callCommand() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "call <name>",
		Short: "Call a deployed function",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.application(cmd)
			if err != nil {
				return err
			}
			res, err := a.Call(cmd.Context(), args[0], body)
			if err != nil {
				return err
			}
			return renderCall(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&body, "body", "b", "", "Request body, a JSON string passed to the function as-is.")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func (r *root) listCommand() *cobra.Command {
	var (
		opts   faasapi.ListOptions
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deployed functions",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := r.application(cmd)
			if err != nil {
				return err
			}
			recs, err := a.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), recs)
			}
			return renderList(cmd.OutOrStdout(), recs)
		},
	}

	cmd.Flags().StringVarP(&opts.Owner, "owner", "o", "", "Only functions owned by this address.")
	cmd.Flags().StringVarP(&opts.Template, "template", "t", "", "Only functions built from this template.")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full records as JSON.")
	return cmd
}

func (r *root) infoCommand() *cobra.Command {
	var contentOnly bool

	cmd := &cobra.Command{
		Use:   "info <name>",
		Short: "Show a deployed function",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.application(cmd)
			if err != nil {
				return err
			}
			rec, err := a.Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if contentOnly {
				_, err := fmt.Fprint(cmd.OutOrStdout(), rec.Content)
				return err
			}
			return renderInfo(cmd.OutOrStdout(), rec)
		},
	}

	cmd.Flags().BoolVar(&contentOnly, "content", false, "Print only the function source.")
	return cmd
}

func (r *root) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <name>",
		Short: "Verify the runtime function equals its on-chain code",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.application(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🚀 Verifying the function: %q\n", args[0])

			ver, err := a.Verify(cmd.Context(), args[0])
			if ver != nil {
				renderVerification(cmd.OutOrStdout(), ver, err == nil)
			}
			if errors.Is(err, apperr.ErrAssertion) {
				a.Logger().Error("On-chain content does not match the runtime.", "name", args[0], "kind", apperr.Kind(err))
			}
			return err
		},
	}
}
