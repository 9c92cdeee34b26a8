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
	"io/ioutil"

	studiesv1 "github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1"
	"github.com/cloudtuner/optimizer-go/pkg/tuner"
	"github.com/cloudtuner/optimizer-go/tunectl/internal/commander"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// CreateOptions are the options for registering a study
type CreateOptions struct {
	Options

	// ConfigFile is the path of the study configuration to register.
	ConfigFile string
}

// NewCreateCommand creates a command for registering a study
func NewCreateCommand(o *CreateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create STUDY_ID",
		Short: "Create a study",
		Long:  "Create a study, or load it if another actor already created it",
		Args:  cobra.ExactArgs(1),

		PreRunE: o.Complete,
		RunE:    commander.WithContextE(o.create),
	}

	cmd.Flags().StringVarP(&o.ConfigFile, "filename", "f", o.ConfigFile, "File containing the study configuration.")
	_ = cmd.MarkFlagFilename("filename", "yml", "yaml", "json")
	_ = cmd.MarkFlagRequired("filename")

	return cmd
}

func (o *CreateOptions) create(ctx context.Context) error {
	b, err := ioutil.ReadFile(o.ConfigFile)
	if err != nil {
		return err
	}

	sc := studiesv1.StudyConfig{}
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return fmt.Errorf("unable to parse study configuration: %w", err)
	}

	name := studiesv1.NewStudyName(o.Config.Project(), o.Config.Region(), o.StudyID)
	c, err := tuner.CreateOrLoadStudy(ctx, o.StudiesAPI, name, sc)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(o.Out, "%s\n", c.Study.String())
	return err
}
