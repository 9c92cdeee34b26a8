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
	"sigs.k8s.io/yaml"
)

// SuggestOptions are the options for requesting trial suggestions
type SuggestOptions struct {
	Options

	// ClientID identifies this tuner process to the suggestion service.
	ClientID string
	// SuggestionCount is the number of trials to request.
	SuggestionCount int32
}

// NewSuggestCommand creates a command for requesting trial suggestions
func NewSuggestCommand(o *SuggestOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest STUDY_ID",
		Short: "Suggest trials",
		Long:  "Request suggested trials from the study, waiting for the operation to resolve",
		Args:  cobra.ExactArgs(1),

		PreRunE: o.Complete,
		RunE:    commander.WithContextE(o.suggest),
	}

	cmd.Flags().StringVar(&o.ClientID, "client-id", "tunectl", "Client identity requesting the suggestions.")
	cmd.Flags().Int32Var(&o.SuggestionCount, "count", o.SuggestionCount, "Number of suggestions to request.")

	return cmd
}

func (o *SuggestOptions) suggest(ctx context.Context) error {
	c, err := o.tunerClient()
	if err != nil {
		return err
	}

	resp, err := c.GetSuggestions(ctx, o.ClientID, o.SuggestionCount)
	if err != nil {
		return err
	}
	if len(resp.Trials) == 0 {
		_, err = fmt.Fprintln(o.ErrOut, "No suggestions available, try again later.")
		return err
	}

	b, err := yaml.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = o.Out.Write(b)
	return err
}
