package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lectern/pkg/types"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "todo"},
		Short:   "Manage the to-do list",
	}
	cmd.AddCommand(newTaskAddCmd(a))
	cmd.AddCommand(newTaskEditCmd(a))
	cmd.AddCommand(newTaskListCmd(a))
	cmd.AddCommand(newTaskDeleteCmd(a))
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	var d types.TaskDraft
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a task to the top of the list",
		Example: `  lectern task add --title "Order chalk" --description "white and yellow"`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.tasks.Add(cmd.Context(), d)
			if err != nil {
				return err
			}
			return a.render(t, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added task %s (%s)\n", t.ID, t.Title)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&d.Title, "title", "", "task title")
	cmd.Flags().StringVar(&d.Description, "description", "", "task description")
	return cmd
}

func newTaskEditCmd(a *app) *cobra.Command {
	var d types.TaskDraft
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title or description of a task",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := a.tasks.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				t.Title = d.Title
			}
			if cmd.Flags().Changed("description") {
				t.Description = d.Description
			}
			if err := a.tasks.Edit(ctx, t); err != nil {
				return err
			}
			return a.render(t, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated task %s\n", t.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&d.Title, "title", "", "new title")
	cmd.Flags().StringVar(&d.Description, "description", "", "new description")
	return cmd
}

func newTaskListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.tasks.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(all, func(w io.Writer) error {
				if len(all) == 0 {
					_, err := fmt.Fprintln(w, "No tasks.")
					return err
				}
				rows := make([][]string, len(all))
				for i, t := range all {
					rows[i] = []string{t.ID, truncate(t.Title, 40), truncate(t.Description, 60)}
				}
				return writeTable(w, []string{"ID", "TITLE", "DESCRIPTION"}, rows)
			})
		},
	}
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.tasks.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(map[string]string{"id": t.ID, "status": "deleted"}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted task %s\n", t.ID)
				return err
			})
		},
	}
}
