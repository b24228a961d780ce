// Package argops provides the argument operations applied to compiler
// command lines: flag removal, regex rewriting and flag appending.
package argops

import (
	"fmt"
	"regexp"
	"strings"

	"ccmodifier/internal/errors"
)

// Operation transforms an ordered argument list into a new one.
// Implementations must not modify the slice they are given.
type Operation interface {
	Process(args []string) []string
}

// RemoveFlags drops every argument that exactly equals one of its flags.
type RemoveFlags struct {
	flags []string
	set   map[string]struct{}
}

// NewRemoveFlags creates a RemoveFlags operation.
func NewRemoveFlags(flags ...string) *RemoveFlags {
	r := &RemoveFlags{set: make(map[string]struct{}, len(flags))}
	for _, f := range flags {
		if _, dup := r.set[f]; dup {
			continue
		}
		r.set[f] = struct{}{}
		r.flags = append(r.flags, f)
	}
	return r
}

// Process implements Operation.
func (r *RemoveFlags) Process(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if _, drop := r.set[a]; !drop {
			out = append(out, a)
		}
	}
	return out
}

// Flags returns the removed flags in configuration order.
func (r *RemoveFlags) Flags() []string {
	return append([]string(nil), r.flags...)
}

func (r *RemoveFlags) String() string {
	return "remove(" + strings.Join(r.flags, ", ") + ")"
}

// RegexTransform rewrites each argument by substituting matches of a
// pattern with a replacement template.
type RegexTransform struct {
	re          *regexp.Regexp
	replacement string
}

// NewRegexTransform compiles pattern and returns the operation.
// An invalid pattern yields an INVALID_PATTERN error.
func NewRegexTransform(pattern, replacement string) (*RegexTransform, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.New(errors.InvalidPattern,
			fmt.Sprintf("cannot compile pattern %q", pattern), err)
	}
	return &RegexTransform{re: re, replacement: replacement}, nil
}

// MustRegexTransform is like NewRegexTransform but panics on a bad pattern.
func MustRegexTransform(pattern, replacement string) *RegexTransform {
	t, err := NewRegexTransform(pattern, replacement)
	if err != nil {
		panic(err)
	}
	return t
}

// Process implements Operation.
func (t *RegexTransform) Process(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = t.re.ReplaceAllString(a, t.replacement)
	}
	return out
}

func (t *RegexTransform) String() string {
	return fmt.Sprintf("regex(%s -> %s)", t.re.String(), t.replacement)
}

// AddFlags appends its flags after the existing arguments.
type AddFlags struct {
	flags []string
}

// NewAddFlags creates an AddFlags operation.
func NewAddFlags(flags ...string) *AddFlags {
	return &AddFlags{flags: append([]string(nil), flags...)}
}

// Process implements Operation.
func (a *AddFlags) Process(args []string) []string {
	out := make([]string, 0, len(args)+len(a.flags))
	out = append(out, args...)
	return append(out, a.flags...)
}

func (a *AddFlags) String() string {
	return "add(" + strings.Join(a.flags, ", ") + ")"
}
