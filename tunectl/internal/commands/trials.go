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

	studiesv1 "github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1"
	"github.com/cloudtuner/optimizer-go/tunectl/internal/commander"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// TrialsOptions are the options for listing the trials of a study
type TrialsOptions struct {
	Options
}

// NewTrialsCommand creates a command for listing the trials of a study
func NewTrialsCommand(o *TrialsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trials STUDY_ID",
		Short: "List trials",
		Long:  "List the trial history of a study in service order",
		Args:  cobra.ExactArgs(1),

		PreRunE: o.Complete,
		RunE:    commander.WithContextE(o.trials),
	}

	return cmd
}

func (o *TrialsOptions) trials(ctx context.Context) error {
	c, err := o.tunerClient()
	if err != nil {
		return err
	}

	trials, err := c.ListTrials(ctx)
	if err != nil {
		return err
	}
	if len(trials) == 0 {
		_, err = fmt.Fprintln(o.ErrOut, "No trials found.")
		return err
	}

	b, err := yaml.Marshal(studiesv1.TrialList{Trials: trials})
	if err != nil {
		return err
	}
	_, err = o.Out.Write(b)
	return err
}
