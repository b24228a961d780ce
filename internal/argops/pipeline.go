package argops

import (
	"fmt"
	"strings"
)

// Pipeline is an ordered list of operations.
type Pipeline []Operation

// Apply runs args through every operation in order.
func (p Pipeline) Apply(args []string) []string {
	for _, op := range p {
		args = op.Process(args)
	}
	return args
}

// RemovalFlags returns the flags of every RemoveFlags member, in pipeline order.
func (p Pipeline) RemovalFlags() []string {
	var flags []string
	for _, op := range p {
		if r, ok := op.(*RemoveFlags); ok {
			flags = append(flags, r.flags...)
		}
	}
	return flags
}

func (p Pipeline) String() string {
	parts := make([]string, len(p))
	for i, op := range p {
		if s, ok := op.(fmt.Stringer); ok {
			parts[i] = s.String()
		} else {
			parts[i] = fmt.Sprintf("%T", op)
		}
	}
	return strings.Join(parts, " | ")
}

// DefaultPipeline returns the fixed pipeline used by the command:
// drop GCC-only optimisation flags, demote include paths to system includes,
// and rename the literal-suffix warning to its clang spelling.
func DefaultPipeline() Pipeline {
	return Pipeline{
		NewRemoveFlags("-fno-toplevel-reorder", "-fno-tree-scev-cprop"),
		MustRegexTransform(`^-I`, "-isystem"),
		MustRegexTransform(`^-Wno-literal-suffix`, "-Wno-user-defined-literals"),
	}
}
