// media-clone triages downloaded media folders: pick a source folder,
// confirm a clean destination name, and copy its video and/or subtitle
// files into the library while remembering the chosen name.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-media-clone/internal/config"
	"github.com/litescript/ls-media-clone/internal/logging"
	"github.com/litescript/ls-media-clone/internal/prompt"
	"github.com/litescript/ls-media-clone/internal/session"
	"github.com/litescript/ls-media-clone/internal/theme"
	"github.com/litescript/ls-media-clone/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	var (
		cfgPath string
		debug   bool
		code    int
	)

	root := &cobra.Command{
		Use:           "media-clone",
		Short:         "Copy downloaded media folders into a library under clean names",
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code = triage(cmd, cfgPath, debug)
			return nil
		},
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "path to the mapping/config file")
	root.Flags().BoolVar(&debug, "debug", false, "log debug events to stderr")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return code
}

func triage(cmd *cobra.Command, cfgPath string, debug bool) int {
	stderr := cmd.ErrOrStderr()
	log := logging.New(stderr, debug)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading config (%s):\n%v\n", cfgPath, err)
		return 1
	}
	log.Debug().Str("config", cfgPath).Int("mappings", len(cfg.Mapping)).Msg("config loaded")

	// Follow terminal theme edits while the prompts are open
	if w, err := theme.NewWatcher(nil); err == nil {
		defer w.Stop()
	} else {
		log.Debug().Err(err).Msg("theme watcher disabled")
	}

	s := session.New(cfgPath, cfg, prompt.NewTerminal(prompt.WithOutput(cmd.OutOrStdout())),
		session.WithOutput(cmd.OutOrStdout()),
		session.WithLogger(log),
	)

	outcome, err := s.Run()
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", theme.Current().Error.Render("Error: "+err.Error()))
		return 1
	}
	log.Debug().Stringer("outcome", outcome).Msg("session finished")
	return 0
}
