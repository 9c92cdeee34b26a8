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
	"strconv"
	"strings"

	studiesv1 "github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1"
	"github.com/cloudtuner/optimizer-go/tunectl/internal/commander"
	"github.com/spf13/cobra"
)

// ReportOptions are the options for reporting an intermediate measurement
type ReportOptions struct {
	Options

	// TrialID of the trial being measured.
	TrialID string
	// Step is the training step count of the measurement.
	Step int64
	// ElapsedSecs is the elapsed training time of the measurement.
	ElapsedSecs int64
	// Metrics are the observed "name=value" pairs.
	Metrics []string
}

// NewReportCommand creates a command for reporting an intermediate measurement
func NewReportCommand(o *ReportOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report STUDY_ID TRIAL_ID",
		Short: "Report a measurement",
		Long:  "Report an intermediate objective measurement against a trial",
		Args:  cobra.ExactArgs(2),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			o.TrialID = args[1]
			return o.Complete(cmd, args)
		},
		RunE: commander.WithContextE(o.report),
	}

	cmd.Flags().Int64Var(&o.Step, "step", o.Step, "Training step the measurement was taken at.")
	cmd.Flags().Int64Var(&o.ElapsedSecs, "elapsed", o.ElapsedSecs, "Elapsed training time in seconds.")
	cmd.Flags().StringArrayVar(&o.Metrics, "metric", nil, "Observed metric as 'name=value', repeatable.")

	return cmd
}

func (o *ReportOptions) report(ctx context.Context) error {
	metrics, err := parseMetrics(o.Metrics)
	if err != nil {
		return err
	}

	c, err := o.tunerClient()
	if err != nil {
		return err
	}

	return c.ReportIntermediateObjectiveValue(ctx, o.Step, o.ElapsedSecs, metrics, o.TrialID)
}

// parseMetrics converts "name=value" pairs into measurement metrics, preserving order
func parseMetrics(args []string) ([]studiesv1.Metric, error) {
	metrics := make([]studiesv1.Metric, 0, len(args))
	for _, arg := range args {
		p := strings.SplitN(arg, "=", 2)
		if len(p) != 2 {
			return nil, fmt.Errorf("invalid metric %q, expected 'name=value'", arg)
		}

		v, err := strconv.ParseFloat(p[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid metric value %q: %w", p[1], err)
		}

		metrics = append(metrics, studiesv1.Metric{Metric: p[0], Value: v})
	}
	return metrics, nil
}
