package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iudanet/dequeuesync/internal/models"
)

// NewAddCommand creates the add command.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	var (
		id     string
		parent string
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "add <kind> [title]",
		Short: "Create an entity",
		Long: `Create a stack, task, arc, reminder or tag. The change is stored locally
and pushed with the next sync.

Example:
  dequeuesync add task "Buy milk" --set priority=2
  dequeuesync add reminder --parent task:0192... --set at='"2026-01-01T09:00:00Z"'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			values, err := parseFields(fields)
			if err != nil {
				return err
			}
			if len(args) == 2 {
				values["title"] = args[1]
			}
			ref, err := parseParent(parent)
			if err != nil {
				return err
			}

			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				state, err := app.data.Create(ctx, kind, id, values, ref)
				if err != nil {
					return err
				}
				app.io.Printf("Created %s %s\n", state.Kind, state.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "entity id (generated when empty)")
	cmd.Flags().StringVar(&parent, "parent", "", "parent reference type:id")
	cmd.Flags().StringArrayVar(&fields, "set", nil, "field key=value, repeatable")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "update <kind> <id>",
		Short: "Change fields of an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			values, err := parseFields(fields)
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				state, err := app.data.Update(ctx, kind, args[1], values)
				if err != nil {
					return err
				}
				app.printEntity(state)
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&fields, "set", nil, "field key=value, repeatable")

	return cmd
}

// NewMoveCommand creates the move command.
func NewMoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <kind> <id> <type:id>",
		Short: "Attach a reminder or attachment to another parent",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			ref, err := parseParent(args[2])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				if _, err := app.data.Move(ctx, kind, args[1], *ref); err != nil {
					return err
				}
				app.io.Printf("Moved %s %s to %s %s\n", kind, args[1], ref.Type, ref.ID)
				return nil
			})
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				if _, err := app.data.Delete(ctx, kind, args[1]); err != nil {
					return err
				}
				app.io.Printf("Deleted %s %s\n", kind, args[1])
				return nil
			})
		},
	}
}

// NewRestoreCommand creates the restore command.
func NewRestoreCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <kind> <id>",
		Short: "Undo a deletion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				if _, err := app.data.Restore(ctx, kind, args[1]); err != nil {
					return err
				}
				app.io.Printf("Restored %s %s\n", kind, args[1])
				return nil
			})
		},
	}
}

// NewCompleteCommand creates the complete command.
func NewCompleteCommand(opts *RootOptions) *cobra.Command {
	var (
		reopen bool
		stack  bool
	)

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete or reopen a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := models.KindTask
			if stack {
				kind = models.KindStack
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				state, err := app.data.SetStatus(ctx, kind, args[0], !reopen)
				if err != nil {
					return err
				}
				app.io.Printf("%s %s is %s\n", kind, state.ID, state.String(models.FieldStatus))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reopen, "reopen", false, "reopen instead of completing")
	cmd.Flags().BoolVar(&stack, "stack", false, "the id refers to a stack")

	return cmd
}

// NewActivateCommand creates the activate command.
func NewActivateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <stack-id>",
		Short: "Make a stack the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				if _, err := app.data.Activate(ctx, args[0]); err != nil {
					return err
				}
				app.io.Printf("Stack %s is active\n", args[0])
				return nil
			})
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List entities of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				list, err := app.data.List(ctx, kind)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					app.io.Printf("No %s entities\n", kind)
					return nil
				}
				for _, state := range list {
					app.printEntityLine(state)
				}
				return nil
			})
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Show all fields of an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				state, err := app.data.Get(ctx, kind, args[1])
				if err != nil {
					return err
				}
				app.printEntity(state)
				return nil
			})
		},
	}
}
