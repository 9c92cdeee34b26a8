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

	"github.com/cloudtuner/optimizer-go/tunectl/internal/commander"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// CompleteOptions are the options for completing a trial
type CompleteOptions struct {
	Options

	// TrialID of the trial to complete.
	TrialID string
	// Infeasible marks the trial as impossible to evaluate.
	Infeasible bool
	// InfeasibleReason describes why the trial was infeasible.
	InfeasibleReason string
}

// NewCompleteCommand creates a command for completing a trial
func NewCompleteCommand(o *CompleteOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete STUDY_ID TRIAL_ID",
		Short: "Complete a trial",
		Long:  "Mark a trial completed and print the resulting trial record",
		Args:  cobra.ExactArgs(2),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			o.TrialID = args[1]
			return o.Complete(cmd, args)
		},
		RunE: commander.WithContextE(o.complete),
	}

	cmd.Flags().BoolVar(&o.Infeasible, "infeasible", o.Infeasible, "Mark the trial infeasible.")
	cmd.Flags().StringVar(&o.InfeasibleReason, "reason", o.InfeasibleReason, "Reason the trial was infeasible.")

	return cmd
}

func (o *CompleteOptions) complete(ctx context.Context) error {
	c, err := o.tunerClient()
	if err != nil {
		return err
	}

	t, err := c.CompleteTrial(ctx, o.TrialID, o.Infeasible, o.InfeasibleReason)
	if err != nil {
		return err
	}

	b, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	_, err = o.Out.Write(b)
	return err
}
