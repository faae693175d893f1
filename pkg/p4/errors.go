package p4

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by InvalidArgumentError.
var (
	ErrUnsupportedOption = errors.New("unsupported connection option")
	ErrInvalidOption     = errors.New("option not allowed for non-interactive use")
	ErrInvalidValue      = errors.New("invalid value")
)

// CommandError reports a p4 invocation that exited non-zero.
type CommandError struct {
	Command  string // joined command line
	Stderr   string // stderr output from p4
	ExitCode int
}

func (e *CommandError) Error() string {
	s := strings.TrimSpace(e.Stderr)
	if s != "" {
		return fmt.Sprintf("running '%s': %s (exit %d)", e.Command, s, e.ExitCode)
	}
	return fmt.Sprintf("running '%s': exit %d", e.Command, e.ExitCode)
}

// ParseError reports a line of p4 output that matched none of the shapes
// the command's grammar expects.
type ParseError struct {
	Command string // p4 subcommand (or "form") whose output was parsed
	Line    string // offending line, without its terminator
	Err     error  // underlying conversion error, if any
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("could not parse 'p4 %s' output line: '%s'", e.Command, e.Line)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidArgumentError reports an option value outside its accepted domain.
type InvalidArgumentError struct {
	Name  string
	Value string
	Err   error // one of ErrUnsupportedOption, ErrInvalidOption, ErrInvalidValue
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s '%s': %v", e.Name, e.Value, e.Err)
}

func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// IncompleteArgumentsError reports a combination of arguments a command
// cannot act on.
type IncompleteArgumentsError struct {
	Command string
	Reason  string
}

func (e *IncompleteArgumentsError) Error() string {
	return fmt.Sprintf("p4 %s: incomplete arguments: %s", e.Command, e.Reason)
}

// IsCommandError reports whether err came from a p4 process that exited non-zero.
func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr)
}

// IsParseError reports whether err indicates unexpected p4 output.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

func invalidValue(name, value string) error {
	return &InvalidArgumentError{Name: name, Value: value, Err: ErrInvalidValue}
}

func incomplete(command, reason string) error {
	return &IncompleteArgumentsError{Command: command, Reason: reason}
}

func unparseable(command, line string) error {
	return &ParseError{Command: command, Line: line}
}
