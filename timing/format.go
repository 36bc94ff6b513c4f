package timing

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// DefaultTemplate is the message template used when the configuration does
// not name one.
const DefaultTemplate = "fn:{fn} cost {cost}{unit}"

// A Format is a parsed message template. The recognized placeholders are
// {fn} for the function identifier, {cost} for the scaled duration value,
// and {unit} for the unit suffix. A bare {} is shorthand for {cost}. Literal
// braces are written {{ and }}.
type Format struct {
	segments []segment
}

type segment struct {
	literal     string
	placeholder string
}

// ParseFormat parses a message template. Unknown placeholders and unbalanced
// braces are reported as errors.
func ParseFormat(template string) (Format, error) {
	f := Format{}
	rest := template

	for len(rest) > 0 {
		switch {
		case strings.HasPrefix(rest, "{{"):
			f.appendLiteral("{")
			rest = rest[2:]
		case strings.HasPrefix(rest, "}}"):
			f.appendLiteral("}")
			rest = rest[2:]
		case rest[0] == '{':
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return Format{}, fmt.Errorf(
					"unclosed placeholder in format %q", template)
			}
			name := rest[1:end]
			if !validPlaceholder(name) {
				return Format{}, fmt.Errorf(
					"unknown placeholder {%s} in format %q, "+
						"must be one of {fn}, {cost}, {unit}", name, template)
			}
			if name == "" {
				name = "cost"
			}
			f.segments = append(f.segments, segment{placeholder: name})
			rest = rest[end+1:]
		case rest[0] == '}':
			return Format{}, fmt.Errorf(
				"unmatched '}' in format %q", template)
		default:
			end := strings.IndexAny(rest, "{}")
			if end < 0 {
				end = len(rest)
			}
			f.appendLiteral(rest[:end])
			rest = rest[end:]
		}
	}

	return f, nil
}

// MustParseFormat parses a message template and panics if it is malformed.
func MustParseFormat(template string) Format {
	f, err := ParseFormat(template)
	if err != nil {
		log.Panic(err)
	}
	return f
}

func validPlaceholder(name string) bool {
	return name == "" || name == "fn" || name == "cost" || name == "unit"
}

func (f *Format) appendLiteral(s string) {
	n := len(f.segments)
	if n > 0 && f.segments[n-1].placeholder == "" {
		f.segments[n-1].literal += s
		return
	}
	f.segments = append(f.segments, segment{literal: s})
}

// Render substitutes the function name and the scaled duration into the
// template.
func (f Format) Render(fn string, value int64, unit Unit) string {
	b := strings.Builder{}
	for _, seg := range f.segments {
		switch seg.placeholder {
		case "":
			b.WriteString(seg.literal)
		case "fn":
			b.WriteString(fn)
		case "cost":
			b.WriteString(strconv.FormatInt(value, 10))
		case "unit":
			b.WriteString(unit.Suffix())
		}
	}
	return b.String()
}
