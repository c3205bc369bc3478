// Package handlers maps console commands onto repository queries and prints
// their results.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/dberrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// Menu is printed before every prompt
const Menu = `
What would you like to do?

d - demo
vs <student_id>            - view subjects taken by a student
la <firstname> <surname>   - lookup address for a given firstname and surname
lr <student_id>            - list reviews for a given student_id
lc <teacher_id>            - list all courses taken by teacher_id
lnc                        - list all students who haven't completed their course
lf                         - list all students who have completed their course and achieved 30 or below
e                          - exit this program

`

// InputPrompt is the prompt the command line is read with
const InputPrompt = "Type your option here: "

// HandlerFunc runs a command with already validated arguments
type HandlerFunc func(ctx context.Context, args []string) error

// Command describes one console command
type Command struct {
	Name string
	// Args is the exact number of arguments the command takes
	Args    int
	Handler HandlerFunc
}

// Dispatcher routes input lines to registered commands
type Dispatcher struct {
	commands map[string]Command
	out      io.Writer
}

// NewDispatcher creates a Dispatcher that already knows the help commands
func NewDispatcher(out io.Writer) *Dispatcher {
	d := &Dispatcher{commands: make(map[string]Command), out: out}

	help := func(context.Context, []string) error {
		fmt.Fprint(d.out, Menu)
		return nil
	}
	d.Register(Command{Name: "h", Handler: help})
	d.Register(Command{Name: "help", Handler: help})
	return d
}

// Register adds or replaces a command
func (d *Dispatcher) Register(cmds ...Command) {
	for _, cmd := range cmds {
		d.commands[cmd.Name] = cmd
	}
}

// Names lists the registered command names in sorted order
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch parses line and runs the matching command. Problems with the
// command itself are printed and swallowed; only apperrors.ErrExitRequested,
// input errors such as io.EOF and context cancellation are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	name := ""
	var args []string
	if len(fields) > 0 {
		name, args = fields[0], fields[1:]
	}

	cmd, ok := d.commands[name]
	if !ok {
		d.report(apperrors.NewUnknownCommandError(name))
		return nil
	}
	if len(args) != cmd.Args {
		d.report(apperrors.NewUsageError(name, cmd.Args))
		return nil
	}

	log := logger.WithField("command", name)
	log.Debug().Strs("args", args).Msg("Dispatching command")

	err := cmd.Handler(ctx, args)
	if err == nil {
		return nil
	}
	if apperrors.Is(err, apperrors.ErrExitRequested, io.EOF, context.Canceled) {
		return err
	}

	log.Error().Err(err).Msg("Command failed")
	d.report(err)
	return nil
}

// report prints a recoverable error to the console
func (d *Dispatcher) report(err error) {
	var custom *apperrors.CustomError
	switch {
	case errors.As(err, &custom):
		logger.Debug().Str("code", custom.Code).Fields(custom.Details).Msg("Input rejected")
		fmt.Fprintln(d.out, custom.Error())
	case dberrors.IsUndefinedTable(err), dberrors.IsUndefinedColumn(err):
		fmt.Fprintf(d.out, "Error: %v\nCheck that the schema script has been applied to the database.\n", err)
	default:
		fmt.Fprintf(d.out, "Error: %v\n", err)
	}
}
