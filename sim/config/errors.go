package config

import (
	"fmt"
	"strings"
)

// FormatError reports a line matching none of the stock, process or
// optimize grammars.
type FormatError struct {
	Line int
	Text string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %q does not respect file format: stock <name:quantity>, "+
		"process <name:(need:qty;...):(result:qty;...):delay>, optimize <optimize:(name;...;time)>", e.Line, e.Text)
}

// OrderError reports a line out of the stock, process, optimize order.
type OrderError struct {
	Line int
	Text string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("line %d: %q breaks section order: stock > process > optimize", e.Line, e.Text)
}

// DuplicateOptimizeError reports a second optimize directive.
type DuplicateOptimizeError struct {
	Line      int
	FirstLine int
}

func (e *DuplicateOptimizeError) Error() string {
	return fmt.Sprintf("line %d: optimize already declared at line %d", e.Line, e.FirstLine)
}

// MissingOptimizeError reports a file without an optimize directive.
type MissingOptimizeError struct{}

func (e *MissingOptimizeError) Error() string {
	return "no optimize directive found"
}

// UnknownOptimizeResourceError reports optimize targets that no process
// consumes or produces.
type UnknownOptimizeResourceError struct {
	Line      int
	Resources []string
}

func (e *UnknownOptimizeResourceError) Error() string {
	return fmt.Sprintf("line %d: optimize names resources used by no process: %s", e.Line, strings.Join(e.Resources, ", "))
}

// DuplicateProcessError reports a process name declared twice.
type DuplicateProcessError struct {
	Line      int
	Name      string
	FirstLine int
}

func (e *DuplicateProcessError) Error() string {
	return fmt.Sprintf("line %d: process %q already declared at line %d", e.Line, e.Name, e.FirstLine)
}

// EmptyProcessListError reports a file without any process line.
type EmptyProcessListError struct{}

func (e *EmptyProcessListError) Error() string {
	return "no process declared"
}
