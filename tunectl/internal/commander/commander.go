/*
Copyright 2020 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package commander has helpers shared by the tunectl commands.
package commander

import (
	"context"
	"fmt"
	"io"
	"os"

	optimizerclient "github.com/cloudtuner/optimizer-go/optimizerapi"
	"github.com/cloudtuner/optimizer-go/optimizerapi/config"
	studiesv1 "github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// IOStreams allows individual commands access to standard process streams (or their overrides).
type IOStreams struct {
	// In is used to access the standard input stream (or it's override)
	In io.Reader
	// Out is used to access the standard output stream (or it's override)
	Out io.Writer
	// ErrOut is used to access the standard error output stream (or it's override)
	ErrOut io.Writer
}

// SetStreams updates the streams using the supplied command
func SetStreams(streams *IOStreams, cmd *cobra.Command) {
	streams.Out = cmd.OutOrStdout()
	streams.ErrOut = cmd.ErrOrStderr()
	streams.In = cmd.InOrStdin()
}

// StreamsPreRun is intended to be used as a pre-run function for commands when no other action is required
func StreamsPreRun(streams *IOStreams) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		SetStreams(streams, cmd)
	}
}

// NewStudiesAPI creates a new studies API interface from the supplied configuration
func NewStudiesAPI(ctx context.Context, cfg optimizerclient.Config) (studiesv1.API, error) {
	// Reuse the OAuth2 base transport for the API calls
	t := oauth2.NewClient(ctx, nil).Transport
	c, err := optimizerclient.NewClient(ctx, cfg, t)
	if err != nil {
		return nil, err
	}

	return studiesv1.NewAPI(c), nil
}

// NewLogger returns a zap backed logger for command diagnostics
func NewLogger(verbose bool) (logr.Logger, error) {
	var zl *zap.Logger
	var err error
	if verbose {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return zapr.NewLogger(zl), nil
}

// ConfigGlobals sets up persistent globals for the supplied configuration
func ConfigGlobals(cfg *config.ClientConfig, cmd *cobra.Command) {
	// Make sure we get the root to make these globals
	root := cmd.Root()

	root.PersistentFlags().StringVar(&cfg.Filename, "optimizerconfig", cfg.Filename, "Path to the optimizer configuration file to use.")
	root.PersistentFlags().StringVar(&cfg.Overrides.Project, "project", "", "The project owning the studies.")
	root.PersistentFlags().StringVar(&cfg.Overrides.Region, "region", "", "The region hosting the studies.")

	_ = root.MarkFlagFilename("optimizerconfig")

	// Set the persistent pre-run on the root, individual commands can bypass this by supplying their own persistent pre-run
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return cfg.Load() }
}

// WithContextE wraps a function that accepts a context in one that accepts a command and argument slice
func WithContextE(runE func(context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error { return runE(cmd.Context()) }
}

// AddPreRunE adds an error returning pre-run function to the supplied command, existing pre-run actions will run AFTER
// the supplied function, and only if the supplied pre-run function does not return an error
func AddPreRunE(cmd *cobra.Command, preRunE func(*cobra.Command, []string) error) {
	// Nothing set yet, just add it
	if cmd.PreRunE == nil && cmd.PreRun == nil {
		cmd.PreRunE = preRunE
		return
	}

	// Capture the existing function
	oldPreRunE := cmd.PreRunE
	oldPreRun := cmd.PreRun

	// Redefine the pre-run
	cmd.PreRun = nil
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if err := preRunE(cmd, args); err != nil {
			return err
		}
		if oldPreRunE != nil {
			return oldPreRunE(cmd, args)
		}
		if oldPreRun != nil {
			oldPreRun(cmd, args)
		}
		return nil
	}
}

// MapErrors wraps all of the error returning run functions of the supplied command
// so that errors pass through the mapping function before they are reported
func MapErrors(cmd *cobra.Command, f func(error) error) {
	// Define a function which will wrap a non-nil error returning function
	wrapE := func(runE func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
		if runE == nil {
			return nil
		}
		return func(cmd *cobra.Command, args []string) error {
			return f(runE(cmd, args))
		}
	}

	cmd.PersistentPreRunE = wrapE(cmd.PersistentPreRunE)
	cmd.PreRunE = wrapE(cmd.PreRunE)
	cmd.RunE = wrapE(cmd.RunE)
	cmd.PostRunE = wrapE(cmd.PostRunE)
	cmd.PersistentPostRunE = wrapE(cmd.PersistentPostRunE)

	for _, c := range cmd.Commands() {
		MapErrors(c, f)
	}
}

// Run executes the supplied command and exits the process on failure
func Run(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}
