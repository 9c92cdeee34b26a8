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
	"context"
	"fmt"

	"github.com/cloudtuner/optimizer-go/tunectl/internal/commander"
	"github.com/spf13/cobra"
)

// CheckOptions are the options for checking the early stopping state of a trial
type CheckOptions struct {
	Options

	// TrialID of the trial to check.
	TrialID string
}

// NewCheckCommand creates a command for checking the early stopping state of a trial
func NewCheckCommand(o *CheckOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check STUDY_ID TRIAL_ID",
		Short: "Check early stopping",
		Long:  "Check whether a trial should stop early, stopping it when the service recommends it",
		Args:  cobra.ExactArgs(2),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			o.TrialID = args[1]
			return o.Complete(cmd, args)
		},
		RunE: commander.WithContextE(o.check),
	}

	return cmd
}

func (o *CheckOptions) check(ctx context.Context) error {
	c, err := o.tunerClient()
	if err != nil {
		return err
	}

	shouldStop, err := c.ShouldTrialStop(ctx, o.TrialID)
	if err != nil {
		return err
	}

	if shouldStop {
		_, err = fmt.Fprintf(o.Out, "Trial %s stopped early.\n", o.TrialID)
	} else {
		_, err = fmt.Fprintf(o.Out, "Trial %s should keep running.\n", o.TrialID)
	}
	return err
}
