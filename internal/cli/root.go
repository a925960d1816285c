// Package cli implements the lectern command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/lectern/internal/game"
	"github.com/mesh-intelligence/lectern/internal/metrics"
	"github.com/mesh-intelligence/lectern/internal/query"
	"github.com/mesh-intelligence/lectern/internal/service"
	"github.com/mesh-intelligence/lectern/internal/storage"
	"github.com/mesh-intelligence/lectern/internal/store"
	"github.com/mesh-intelligence/lectern/internal/validation"
	"github.com/mesh-intelligence/lectern/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// annotationNoStore marks commands that run without opening storage.
const annotationNoStore = "lectern/no-store"

// rootFlags holds global flag values.
type rootFlags struct {
	configDir   string
	dataDir     string
	backend     string
	output      string
	verbose     bool
	metricsFile string
}

// app is the state shared by one invocation of the command tree.
type app struct {
	flags rootFlags
	in    io.Reader
	out   io.Writer
	err   io.Writer

	configDir string
	dataDir   string
	settings  settings

	log        *zap.Logger
	rec        *metrics.Recorder
	handle     *storage.Handle
	classrooms *service.Classrooms
	tasks      *service.Tasks
}

// usageError marks bad flags or arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// Run executes the lectern command tree with args and returns the process
// exit code.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{in: in, out: out, err: errOut, rec: metrics.NewRecorder(), log: zap.NewNop()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	runErr := root.ExecuteContext(ctx)
	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr == nil {
		return exitSuccess
	}
	fmt.Fprintln(errOut, "Error:", runErr)
	return exitCode(runErr)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "lectern",
		Short: "Manage classrooms and a to-do list from the command line",
		Long: `Lectern keeps a persisted list of classrooms and tasks.

Classrooms are validated on every add and edit: names are unique ignoring
case, capacity is positive, the type is Lecture, Lab or Hall and the
manager comes from the configured roster. Classrooms with 30 or more seats
cannot be deleted.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Annotations:       map[string]string{annotationNoStore: "true"},
		Args:              unknownCommand,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.lectern-db)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: memory, file, sqlite, postgres, s3")
	pf.StringVarP(&a.flags.output, "output", "o", outputText, "output format: text, json, yaml")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&a.flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newRoomCmd(a))
	root.AddCommand(newTaskCmd(a))
	root.AddCommand(newGuessCmd(a))
	return root
}

// setup loads configuration, builds the logger and opens storage for the
// command about to run.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := checkOutput(a.flags.output); err != nil {
		return err
	}
	if skipsStore(cmd) {
		return nil
	}

	configDir, err := resolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	s, err := readSettings(v)
	if err != nil {
		return err
	}
	if a.flags.backend != "" {
		s.Backend = a.flags.backend
	}
	dataDir, err := resolveDataDir(a.flags.dataDir, s.DataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	s.DataDir = dataDir
	a.configDir, a.dataDir, a.settings = configDir, dataDir, s

	log, err := newLogger(a.err, s.LogLevel, a.flags.verbose)
	if err != nil {
		return usageError{err}
	}
	a.log = log

	h, err := storage.Open(cmd.Context(), s.Config)
	if err != nil {
		if errors.Is(err, types.ErrBackendUnknown) || errors.Is(err, types.ErrBackendEmpty) ||
			errors.Is(err, types.ErrDSNRequired) || errors.Is(err, types.ErrBucketRequired) {
			return usageError{fmt.Errorf("storage config: %w", err)}
		}
		return err
	}
	a.handle = h
	a.log.Debug("Storage opened",
		zap.String("backend", h.Backend),
		zap.String("data_dir", dataDir),
		zap.String("config_dir", configDir))

	policy := validation.Policy{Managers: s.Managers}
	a.classrooms = service.NewClassrooms(store.NewClassrooms(h), policy, a.log, a.rec)
	a.tasks = service.NewTasks(store.NewTasks(h), a.log, a.rec)
	return nil
}

// shutdown writes the metrics file and releases storage.
func (a *app) shutdown() error {
	var errs []error
	if a.flags.metricsFile != "" {
		if err := a.rec.WriteTextfile(a.flags.metricsFile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if a.handle != nil {
		if err := a.handle.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	_ = a.log.Sync()
	return errors.Join(errs...)
}

// skipsStore reports whether cmd runs without config or storage: commands
// annotated with annotationNoStore and cobra's help and completion commands.
func skipsStore(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationNoStore] != "" {
		return true
	}
	for c := cmd; c.HasParent(); c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// exitCode maps an error to exitUserError when the user can fix it by
// changing input, and exitSysError otherwise.
func exitCode(err error) int {
	var ue usageError
	switch {
	case errors.As(err, &ue),
		types.IsUserError(err),
		errors.Is(err, query.ErrUnsortableField),
		errors.Is(err, query.ErrInvalidSort),
		errors.Is(err, game.ErrOutOfRange):
		return exitUserError
	default:
		return exitSysError
	}
}

// exactArgs wraps cobra.ExactArgs so arity errors count as user errors.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// unknownCommand rejects positional arguments on the root command, which
// cobra leaves there when they name no subcommand.
func unknownCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	msg := fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath())
	if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
		msg += "; did you mean " + strings.Join(suggestions, " or ") + "?"
	}
	return usageError{errors.New(msg)}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}
