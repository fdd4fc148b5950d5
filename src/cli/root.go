// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slcs/org.glite.slcs.common/src/config"
	"github.com/slcs/org.glite.slcs.common/src/internal/helper/posix"
	x509provider "github.com/slcs/org.glite.slcs.common/src/internal/x509/provider"
	"github.com/slcs/org.glite.slcs.common/src/logger"
)

// OperationPerformed reports whether the last command produced output,
// as opposed to printing help or the version.
var OperationPerformed bool

var (
	// ErrInputFileRequired indicates a command run without its input file.
	ErrInputFileRequired = errors.New("input file is required")

	// ErrPasswordSource indicates conflicting or unreadable password flags.
	ErrPasswordSource = errors.New("cannot read password")
)

// app holds the state shared by every subcommand.
type app struct {
	ctx     context.Context
	version string
	log     logger.Logger

	configPath string
	verbose    bool
	logFormat  string

	cfg      *config.Config
	provider *x509provider.Provider
}

// verboseLogger is implemented by loggers with a debug switch.
type verboseLogger interface {
	SetVerbose(bool)
}

// NewRootCommand builds the slcs-cert command tree.
func NewRootCommand(ctx context.Context, version string, log logger.Logger) *cobra.Command {
	a := &app{ctx: ctx, version: version, log: logger.OrDiscard(log)}

	rootCmd := &cobra.Command{
		Use:           posix.GetExecutableName(),
		Short:         "SLCS certificate request client",
		Long:          "Generate keys and certificate requests for a Short Lived Credential Service and check the certificates it returns.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file (.yaml, .yml or .json, default: $"+config.EnvConfigFile+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "print debug messages")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(
		a.keygenCommand(),
		a.requestCommand(),
		a.inspectCommand(),
		a.chainCommand(),
		a.trustCommand(),
		a.pkcs12Command(),
	)

	return rootCmd
}

// Execute runs the command tree against the process arguments.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	OperationPerformed = false
	return NewRootCommand(ctx, version, log).ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command) error {
	switch strings.ToLower(a.logFormat) {
	case "json":
		a.log = logger.NewJSONLogger(cmd.ErrOrStderr(), a.verbose)
	case "text", "":
		if v, ok := a.log.(verboseLogger); ok {
			v.SetVerbose(a.verbose)
		}
	default:
		return fmt.Errorf("unknown log format %q", a.logFormat)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	provider, err := cfg.Provider()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.provider = provider
	return nil
}

// output writes data to path, or to the command's stdout when path is
// empty. Files get owner read/write and group read.
func (a *app) output(cmd *cobra.Command, path string, data []byte) error {
	OperationPerformed = true
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := posix.WriteFile(path, data, posix.ModePublic, a.log); err != nil {
		return err
	}
	a.log.Printf("wrote %s", path)
	return nil
}

// readPassword returns the password held in the environment variable env
// or the first line of file. Both empty means no password.
func readPassword(env, file string) ([]byte, error) {
	switch {
	case env != "" && file != "":
		return nil, fmt.Errorf("%w: use either an environment variable or a file", ErrPasswordSource)
	case env != "":
		value, ok := os.LookupEnv(env)
		if !ok {
			return nil, fmt.Errorf("%w: environment variable %s is not set", ErrPasswordSource, env)
		}
		return []byte(value), nil
	case file != "":
		data, err := posix.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPasswordSource, err)
		}
		line, _, _ := strings.Cut(string(data), "\n")
		return []byte(strings.TrimRight(line, "\r")), nil
	default:
		return nil, nil
	}
}

// passwordFlags registers the --<prefix>pass-env and --<prefix>pass-file
// flags and returns a reader for them.
func passwordFlags(cmd *cobra.Command, prefix, what string) func() ([]byte, error) {
	var env, file string
	cmd.Flags().StringVar(&env, prefix+"pass-env", "", "environment variable holding the "+what+" password")
	cmd.Flags().StringVar(&file, prefix+"pass-file", "", "file whose first line is the "+what+" password")
	return func() ([]byte, error) { return readPassword(env, file) }
}

func readInput(r io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(r)
	}
	return posix.ReadFile(path)
}
