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

package commands

import (
	"fmt"

	"github.com/cloudtuner/optimizer-go/internal/version"
	"github.com/cloudtuner/optimizer-go/tunectl/internal/commander"
	"github.com/spf13/cobra"
)

// VersionOptions are the options for printing version information
type VersionOptions struct {
	// IOStreams are used to access the standard process streams
	commander.IOStreams
}

// NewVersionCommand creates a command for printing version information
func NewVersionCommand(o *VersionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information",

		PreRun: commander.StreamsPreRun(&o.IOStreams),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(o.Out, "%s version: %s\n", cmd.Root().Name(), version.GetInfo())
			return err
		},
	}

	return cmd
}
