package compdb

import (
	"log/slog"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/kballard/go-shellquote"

	"ccmodifier/internal/argops"
	"ccmodifier/internal/errors"
	"ccmodifier/internal/slogutil"
)

// Outcome records which path an entry took through the normalizer.
type Outcome int

const (
	// OutcomePassthrough means the entry had no usable arguments or command.
	OutcomePassthrough Outcome = iota
	// OutcomeArguments means the "arguments" array was rewritten.
	OutcomeArguments
	// OutcomeCommand means the "command" string was split, rewritten and re-quoted.
	OutcomeCommand
	// OutcomeFallback means the "command" string could not be split and only
	// flag removal was applied to the raw text.
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeArguments:
		return "arguments"
	case OutcomeCommand:
		return "command"
	case OutcomeFallback:
		return "fallback"
	default:
		return "passthrough"
	}
}

// Normalizer applies a pipeline to single entries.
type Normalizer struct {
	pipeline argops.Pipeline
	logger   *slog.Logger
}

// NewNormalizer creates a Normalizer. A nil logger discards output.
func NewNormalizer(p argops.Pipeline, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Normalizer{pipeline: p, logger: logger}
}

// Normalize rewrites e with pipeline p and a discard logger.
func Normalize(e *Entry, p argops.Pipeline) (Outcome, error) {
	return NewNormalizer(p, nil).Normalize(e)
}

// Normalize rewrites the argument representation of e in place. The
// "arguments" array wins over "command"; entries with neither are left alone.
func (n *Normalizer) Normalize(e *Entry) (Outcome, error) {
	if args, ok := e.Arguments(); ok {
		if err := e.Set(KeyArguments, n.pipeline.Apply(args)); err != nil {
			return OutcomeArguments, err
		}
		return OutcomeArguments, nil
	}

	cmd, ok := e.Command()
	if !ok {
		return OutcomePassthrough, nil
	}

	args, err := shellquote.Split(cmd)
	if err != nil {
		n.logger.Debug("Falling back to raw flag removal",
			"file", e.File(),
			"code", errors.TokenizationFailed,
			"error", err.Error(),
		)
		if err := e.Set(KeyCommand, stripFlags(cmd, n.pipeline.RemovalFlags())); err != nil {
			return OutcomeFallback, err
		}
		return OutcomeFallback, nil
	}

	if err := e.Set(KeyCommand, joinCommand(n.pipeline.Apply(args))); err != nil {
		return OutcomeCommand, err
	}
	return OutcomeCommand, nil
}

// joinCommand renders args as a POSIX shell command line. A token is quoted
// whenever it holds anything outside [A-Za-z0-9_@%+=:,./-], so splitting the
// result yields args again.
func joinCommand(args []string) string {
	return shellescape.QuoteCommand(args)
}

// stripFlags removes flags from a command line that could not be tokenized:
// " flag " collapses to a single space and a trailing " flag" at the end of a
// line is dropped.
func stripFlags(cmd string, flags []string) string {
	for _, flag := range flags {
		inner := " " + flag + " "
		for strings.Contains(cmd, inner) {
			cmd = strings.ReplaceAll(cmd, inner, " ")
		}

		tail := " " + flag
		lines := strings.Split(cmd, "\n")
		for i, line := range lines {
			for strings.HasSuffix(line, tail) {
				line = strings.TrimSuffix(line, tail)
			}
			lines[i] = line
		}
		cmd = strings.Join(lines, "\n")
	}
	return cmd
}
