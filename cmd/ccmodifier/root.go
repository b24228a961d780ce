package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ccmodifier/internal/argops"
	"ccmodifier/internal/compdb"
	"ccmodifier/internal/config"
	"ccmodifier/internal/errors"
	"ccmodifier/internal/slogutil"
	"ccmodifier/internal/version"
)

const usageLine = "Usage: ccmodifier <path_to_compile_commands.json>"

// newRootCmd builds the command tree. Logs go to stderr, the rewritten
// document (in dry-run mode) and version output go to stdout.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)

	cmd := &cobra.Command{
		Use:   "ccmodifier <path_to_compile_commands.json>",
		Short: "Rewrite compiler flags in a compilation database",
		Long: `ccmodifier rewrites the compiler flags of every entry in a
compile_commands.json so that clang-based tools can consume databases
produced for GCC builds: GCC-only flags are dropped, -I becomes -isystem
and GCC warning names are mapped to their clang equivalents.`,
		Version:       version.Info(),
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errors.UsageError, usageLine, nil)
			}
			cfg, err := config.FromViper(v)
			if err != nil {
				return errors.New(errors.UsageError, "invalid flags", err)
			}
			return runRewrite(args[0], cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("ccmodifier version {{.Version}}\n")

	flags := cmd.Flags()
	flags.CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	flags.BoolP("quiet", "q", false, "Suppress all log output")
	flags.String("log-format", config.FormatHuman, "Log format: human or json")
	flags.StringP("out", "o", "", "Write the result to this path instead of the input")
	flags.Bool("dry-run", false, "Print the rewritten database to stdout without writing")
	flags.Bool("atomic", true, "Replace the file through a temporary file and rename")

	for key, name := range map[string]string{
		"logging.verbosity": "verbose",
		"logging.quiet":     "quiet",
		"logging.format":    "log-format",
		"output.path":       "out",
		"output.dryRun":     "dry-run",
		"output.atomic":     "atomic",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	cmd.AddCommand(newVersionCmd(stdout))
	return cmd
}

func runRewrite(path string, cfg *config.Config, stdout, stderr io.Writer) error {
	logger := slogutil.NewCLILogger(stderr, cfg.Logging)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.PathNotFound, fmt.Sprintf("%s does not exist.", path), err)
		}
		return errors.New(errors.InternalError, fmt.Sprintf("cannot stat %s", path), err)
	}

	opts := []compdb.Option{
		compdb.WithLogger(logger),
		compdb.WithAtomicWrite(cfg.Output.Atomic),
	}
	switch {
	case cfg.Output.DryRun:
		opts = append(opts, compdb.WithDryRun(stdout))
	case cfg.Output.Path != "":
		opts = append(opts, compdb.WithOutput(cfg.Output.Path))
	}

	pipeline := argops.DefaultPipeline()
	report, err := compdb.NewProcessor(pipeline, opts...).Run(path)
	if err != nil {
		logger.Debug("Rewrite failed", "path", path, "code", string(errors.CodeOf(err)), "error", err)
		return err
	}
	logger.Info("Rewrote compilation database", "report", report)
	return nil
}
