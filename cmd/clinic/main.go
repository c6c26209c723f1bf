// Package main starts the clinic shell, wiring configuration, logging, the
// patient registry, and the session controller together.
package main

import (
	"fmt"
	"os"

	"github.com/clinicstack/cliniccore/internal/config"
	"github.com/clinicstack/cliniccore/internal/logger"
	"github.com/clinicstack/cliniccore/internal/repository"
	"github.com/clinicstack/cliniccore/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:          "clinic",
		Short:        "Interactive shell for the clinic patient and note registry",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build metadata",
		Run: func(cmd *cobra.Command, args []string) {
			v, d := version, buildDate
			if v == "" {
				v = "N/A"
			}
			if d == "" {
				d = "N/A"
			}
			fmt.Printf("Build version: %s\n", v)
			fmt.Printf("Build date: %s\n", d)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// run assembles the core from configuration and hands control to the
// interactive shell.
func run(cfgPath string) error {
	opts, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(opts.LogLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	users := service.DefaultUsers()
	if opts.UsersFile != "" {
		users, err = service.LoadUsers(opts.UsersFile)
		if err != nil {
			return fmt.Errorf("loading credential file: %w", err)
		}
	}

	verifier, err := service.VerifierFor(opts.CredentialScheme)
	if err != nil {
		return err
	}

	registry := repository.NewPatientDAO(opts.DataDir, opts.Persistence, log)
	controller := service.NewController(registry, users, verifier, log)

	log.Info("clinic core ready",
		zap.String("data_dir", opts.DataDir),
		zap.Bool("persistence", opts.Persistence))

	shell := NewShell(controller, os.Stdin, os.Stdout)
	return shell.Run()
}
