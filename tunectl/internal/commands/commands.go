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

// Package commands is the tunectl command tree.
package commands

import (
	"fmt"

	"github.com/cloudtuner/optimizer-go/optimizerapi/config"
	studiesv1 "github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1"
	"github.com/cloudtuner/optimizer-go/pkg/tuner"
	"github.com/cloudtuner/optimizer-go/tunectl/internal/commander"
	"github.com/spf13/cobra"
)

// NewTunectlCommand creates a new top-level tunectl command
func NewTunectlCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "tunectl",
		Short:        "Hyperparameter tuning on hosted optimization studies",
		SilenceUsage: true,
	}

	// Create a global configuration
	cfg := &config.ClientConfig{}
	commander.ConfigGlobals(cfg, rootCmd)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output.")

	// Study commands
	rootCmd.AddCommand(NewCreateCommand(&CreateOptions{Options: Options{Config: cfg}}))
	rootCmd.AddCommand(NewSuggestCommand(&SuggestOptions{Options: Options{Config: cfg}, SuggestionCount: 1}))
	rootCmd.AddCommand(NewTrialsCommand(&TrialsOptions{Options: Options{Config: cfg}}))

	// Trial commands
	rootCmd.AddCommand(NewReportCommand(&ReportOptions{Options: Options{Config: cfg}}))
	rootCmd.AddCommand(NewCheckCommand(&CheckOptions{Options: Options{Config: cfg}}))
	rootCmd.AddCommand(NewCompleteCommand(&CompleteOptions{Options: Options{Config: cfg}}))

	rootCmd.AddCommand(NewVersionCommand(&VersionOptions{}))

	commander.MapErrors(rootCmd, mapError)
	return rootCmd
}

// verbose controls the log level of every command
var verbose bool

// Options are the common options for commands that reach the studies API
type Options struct {
	// Config is the Optimizer client configuration
	Config *config.ClientConfig
	// StudiesAPI is used to interact with the studies API
	StudiesAPI studiesv1.API
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// StudyID of the study the command operates on
	StudyID string
}

// Complete resolves the streams and API bindings before a command runs
func (o *Options) Complete(cmd *cobra.Command, args []string) error {
	commander.SetStreams(&o.IOStreams, cmd)

	if len(args) > 0 {
		o.StudyID = args[0]
	}
	if o.StudyID == "" {
		return fmt.Errorf("a study identifier is required")
	}

	if o.StudiesAPI == nil {
		api, err := commander.NewStudiesAPI(cmd.Context(), o.Config)
		if err != nil {
			return err
		}
		o.StudiesAPI = api
	}

	return nil
}

// tunerClient returns a client bound to the named study
func (o *Options) tunerClient() (*tuner.Client, error) {
	c := tuner.NewClient(o.StudiesAPI, studiesv1.NewStudyName(o.Config.Project(), o.Config.Region(), o.StudyID))

	log, err := commander.NewLogger(verbose)
	if err != nil {
		return nil, err
	}
	c.Log = log

	return c, nil
}

// mapError intercepts errors returned by commands before they are reported
func mapError(err error) error {
	if studiesv1.IsUnauthorized(err) {
		return fmt.Errorf("unauthorized, check the configured credentials: %w", err)
	}
	return err
}
