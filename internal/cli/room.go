package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lectern/internal/query"
	"github.com/mesh-intelligence/lectern/internal/validation"
	"github.com/mesh-intelligence/lectern/pkg/types"
)

func newRoomCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "room",
		Aliases: []string{"rooms", "classroom"},
		Short:   "Manage classrooms",
	}
	cmd.AddCommand(newRoomAddCmd(a))
	cmd.AddCommand(newRoomEditCmd(a))
	cmd.AddCommand(newRoomGetCmd(a))
	cmd.AddCommand(newRoomListCmd(a))
	cmd.AddCommand(newRoomDeleteCmd(a))
	return cmd
}

// roomFlags binds the classroom field flags to raw. Values are parsed and
// validated after the command line is read.
func roomFlags(cmd *cobra.Command, raw *validation.RawClassroom) {
	cmd.Flags().StringVar(&raw.Name, "name", "", "classroom name (at most 50 characters, unique)")
	cmd.Flags().StringVar(&raw.Capacity, "capacity", "", "number of seats")
	cmd.Flags().StringVar(&raw.Type, "type", "", "classroom type: "+strings.Join(types.Categories, ", "))
	cmd.Flags().StringVar(&raw.Manager, "manager", "", "manager, one of the configured roster")
}

func newRoomAddCmd(a *app) *cobra.Command {
	var raw validation.RawClassroom
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a classroom",
		Example: `  lectern room add --name A101 --capacity 25 --type Lecture --manager "Trần Đức Định"
  lectern room add --name "Chem Lab" --capacity 18 --type Lab --manager "Lưu Đức Tuấn" -o json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, errs := validation.ParseClassroom(raw)
			if err := errs.Err(); err != nil {
				return err
			}
			c, err := a.classrooms.Add(cmd.Context(), draft)
			if err != nil {
				return err
			}
			return a.render(c, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added classroom %s (%s)\n", c.ID, c.Name)
				return err
			})
		},
	}
	roomFlags(cmd, &raw)
	return cmd
}

func newRoomEditCmd(a *app) *cobra.Command {
	var raw validation.RawClassroom
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a classroom",
		Long: `Edit replaces the given fields of a classroom. Fields without a flag keep
their current value. The id never changes.`,
		Example: `  lectern room edit 0190c5e2-... --capacity 28`,
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := a.classrooms.Get(ctx, args[0])
			if err != nil {
				return err
			}
			draft, errs := validation.MergeClassroom(current, raw)
			if err := errs.Err(); err != nil {
				return err
			}
			updated := draft.Classroom(current.ID)
			if err := a.classrooms.Edit(ctx, updated); err != nil {
				return err
			}
			return a.render(updated, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated classroom %s (%s)\n", updated.ID, updated.Name)
				return err
			})
		},
	}
	roomFlags(cmd, &raw)
	return cmd
}

func newRoomGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one classroom",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.classrooms.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(c, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "ID:       %s\nName:     %s\nCapacity: %d\nType:     %s\nManager:  %s\n",
					c.ID, c.Name, c.Capacity, c.Type, c.Manager)
				return err
			})
		},
	}
}

func newRoomListCmd(a *app) *cobra.Command {
	var (
		search   string
		category string
		sortSpec string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classrooms",
		Example: `  lectern room list
  lectern room list --search a1 --type Lab
  lectern room list --sort capacity:desc`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sort, err := query.ParseSort(sortSpec)
			if err != nil {
				return err
			}
			rows, err := a.classrooms.List(cmd.Context(), query.Query{Text: search, Type: category, Sort: sort})
			if err != nil {
				return err
			}
			return a.render(rows, func(w io.Writer) error {
				return printClassrooms(w, rows)
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "keep classrooms whose id or name contains this text")
	cmd.Flags().StringVarP(&category, "type", "t", "", "keep classrooms of this type")
	cmd.Flags().StringVar(&sortSpec, "sort", "", "sort by capacity: capacity, capacity:asc or capacity:desc")
	return cmd
}

func printClassrooms(w io.Writer, rows []types.Classroom) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No classrooms found.")
		return err
	}
	table := make([][]string, len(rows))
	for i, c := range rows {
		table[i] = []string{c.ID, truncate(c.Name, 40), strconv.Itoa(c.Capacity), c.Type, c.Manager}
	}
	if err := writeTable(w, []string{"ID", "NAME", "CAPACITY", "TYPE", "MANAGER"}, table); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total: %d classroom(s)\n", len(rows))
	return err
}

func newRoomDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a classroom",
		Long: `Delete asks for confirmation, then removes the classroom. Classrooms with
30 or more seats are kept.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.classrooms.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(a.in, a.err, fmt.Sprintf("Delete classroom %s (%s)?", c.ID, c.Name))
				if err != nil {
					return err
				}
				if !ok {
					return a.render(map[string]string{"id": c.ID, "status": "cancelled"}, func(w io.Writer) error {
						_, err := fmt.Fprintln(w, "Cancelled.")
						return err
					})
				}
			}
			removed, err := a.classrooms.Remove(ctx, c.ID)
			if err != nil {
				return err
			}
			return a.render(map[string]string{"id": removed.ID, "status": "deleted"}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted classroom %s (%s)\n", removed.ID, removed.Name)
				return err
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks prompt on w and reads a yes/no answer from r. Anything but
// y or yes, including end of input, is a no.
func confirm(r io.Reader, w io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
