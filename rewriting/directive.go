// Package rewriting implements the funclock source transformation: it scans
// Go sources for //funclock: directives attached to function declarations
// and rewrites the annotated bodies with timing instrumentation. All
// configuration problems are reported as Diagnostics at rewrite time; the
// rewritten code has no error paths of its own.
package rewriting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funclock/funclock/timing"
)

// Channel identifies the emission channel a directive selects.
type Channel int

// The two channels, selected by the directive name.
const (
	ChannelPrintln Channel = iota
	ChannelLog
)

func (c Channel) String() string {
	if c == ChannelLog {
		return "log"
	}
	return "println"
}

const directivePrefix = "//funclock:"

// A Directive is one parsed //funclock: annotation:
//
//	//funclock:println [unit] ["format string"]
//	//funclock:log     [unit] ["format string"]
//
// The unit token is one of ns, us, ms, s; omitting it selects the rewriter's
// default unit. The format string is a quoted Go string literal holding a
// timing.Format template and may only follow a unit token.
type Directive struct {
	Channel Channel

	// Unit is UnitDefault when the annotation did not name one.
	Unit timing.Unit

	// Format is empty when the annotation did not name one.
	Format string
}

// isDirective reports whether a comment line is a funclock directive at all.
func isDirective(text string) bool {
	return strings.HasPrefix(text, directivePrefix)
}

// parseDirective parses the text of one directive comment line.
func parseDirective(text string, defaultUnit timing.Unit) (Directive, error) {
	rest := strings.TrimPrefix(text, directivePrefix)
	name, args, _ := strings.Cut(rest, " ")

	d := Directive{Unit: defaultUnit}
	switch name {
	case "println":
		d.Channel = ChannelPrintln
	case "log":
		d.Channel = ChannelLog
	default:
		return Directive{}, fmt.Errorf(
			"unknown funclock directive %q, must be println or log", name)
	}

	args = strings.TrimSpace(args)
	if args == "" {
		return d, nil
	}

	if strings.HasPrefix(args, `"`) {
		return Directive{}, fmt.Errorf(
			"a format string must follow a unit token")
	}

	unitToken, rest2, _ := strings.Cut(args, " ")
	unit, err := timing.ParseUnit(unitToken)
	if err != nil {
		return Directive{}, err
	}
	d.Unit = unit

	rest2 = strings.TrimSpace(rest2)
	if rest2 == "" {
		return d, nil
	}

	format, err := strconv.Unquote(rest2)
	if err != nil {
		return Directive{}, fmt.Errorf(
			"malformed format string %s, must be a quoted Go string", rest2)
	}
	if _, err := timing.ParseFormat(format); err != nil {
		return Directive{}, err
	}
	d.Format = format

	return d, nil
}
