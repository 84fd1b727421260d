package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/codingconcepts/versionlist/commands"
	"github.com/codingconcepts/versionlist/config"
)

// version is set via -ldflags.
var version = "dev"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(&commands.Deps{})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := fang.Execute(ctx, root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	)
	return commands.ExitCode(err)
}

func newRootCmd(deps *commands.Deps) *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	verifyCmd := &cobra.Command{
		Use:     "verify",
		Short:   "Verifies a version list",
		Example: "versionlist verify -f versions.json -d",
		Args:    commands.UsageArgs(cobra.NoArgs),
		RunE:    commands.Verify(deps),
	}
	verifyCmd.Flags().BoolP("verify-download", "d", false, "perform a HEAD request on the download URL to ensure it is valid")
	verifyCmd.Flags().Bool("watch", false, "verify again every time the file changes")

	releaseCmd := &cobra.Command{
		Use:     "release CODE NAME [CHANGELOG...]",
		Short:   "Adds a new release to a version list",
		Example: "versionlist release -f versions.json 12 1.2.0 'Fixed crash on start' 'Faster sync'",
		Args:    commands.UsageArgs(cobra.MinimumNArgs(2)),
		RunE:    commands.Release(deps),
	}
	releaseCmd.Flags().String("download-url", "", "set the package download URL")
	releaseCmd.Flags().Bool("dry-run", false, "print the change as a JSON patch instead of writing it")

	rootCmd := &cobra.Command{
		Use:           "versionlist",
		Short:         "Generate, update or verify a static JSON version list for app update checkers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, ".", cmd.Flags())
			if err != nil {
				return &commands.ExitError{Code: commands.ExitUsage, Err: err}
			}

			level, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				return &commands.ExitError{Code: commands.ExitUsage, Err: fmt.Errorf("parsing log level: %w", err)}
			}
			if verbose {
				level = log.DebugLevel
			}

			deps.Config = cfg
			deps.Logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				Prefix: "versionlist",
				Level:  level,
			})
			return nil
		},
	}
	rootCmd.PersistentFlags().StringP("file", "f", "", "read/write version information to `FILE` (default stdin/stdout)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.versionlist.{yaml,toml,json})")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.SetFlagErrorFunc(commands.UsageFlagErrors)

	rootCmd.AddCommand(verifyCmd, releaseCmd)

	return rootCmd
}
