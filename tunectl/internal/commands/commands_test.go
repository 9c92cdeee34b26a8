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
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudtuner/optimizer-go/optimizerapi/config"
	studiesv1 "github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1"
	"github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1/fake"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsage(t *testing.T) {
	testCommandUsage(t, NewTunectlCommand())
}

func testCommandUsage(t *testing.T, cmd *cobra.Command) {
	// The overall goal here is to be consistent, and that includes considering the
	// Cobra generated commands and flags (like help).

	// For short descriptions (e.g. " help  Help about any command") we want sentence
	// case without the period. We also want to prevent wrapping on an 80 column
	// layout so we limit the length.

	t.Run(cmd.Name(), func(t *testing.T) {
		// Short description
		fw := strings.Fields(cmd.Short)[0]
		assert.Equal(t, strings.Title(fw), fw)
		assert.False(t, strings.HasSuffix(cmd.Short, "."))
		assert.Greater(t, 60, len(cmd.Short))

		// Flags
		cmd.Flags().VisitAll(func(f *flag.Flag) {
			t.Run("--"+f.Name, func(t *testing.T) {
				_, u := flag.UnquoteUsage(f)
				assert.NotEmpty(t, u)

				if f.Name == "filename" || f.Name == "optimizerconfig" {
					assert.Containsf(t, f.Annotations, cobra.BashCompFilenameExt, "cmd.MarkFlagFilename(%q, 'ext'...) missing", f.Name)
				}
			})
		})

		// Recurse into the children commands
		for _, c := range cmd.Commands() {
			testCommandUsage(t, c)
		}
	})
}

// testClientConfig returns a loaded configuration isolated from the environment
func testClientConfig(t *testing.T) *config.ClientConfig {
	t.Helper()
	t.Setenv("OPTIMIZER_PROJECT", "")
	t.Setenv("OPTIMIZER_REGION", "")
	t.Setenv("OPTIMIZER_ENDPOINT", "")
	t.Setenv("OPTIMIZER_TOKEN", "")

	cfg := &config.ClientConfig{
		Filename:  filepath.Join(t.TempDir(), "config.yaml"),
		Overrides: config.Overrides{Project: "test-project", Region: "us-central1"},
	}
	require.NoError(t, cfg.Load())
	return cfg
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// newTestStudy registers a study with a single double parameter on the fake API
func newTestStudy(t *testing.T, api *fake.FakeAPI, name studiesv1.StudyName) {
	t.Helper()
	_, err := api.CreateStudy(context.Background(), name, studiesv1.Study{
		StudyConfig: studiesv1.StudyConfig{
			Metrics: []studiesv1.MetricSpec{{Metric: "val_acc", Goal: studiesv1.GoalMaximize}},
			Parameters: []studiesv1.ParameterSpec{{
				Parameter:       "learning_rate",
				Type:            studiesv1.ParameterTypeDouble,
				DoubleValueSpec: &studiesv1.DoubleValueSpec{MinValue: 0.0001, MaxValue: 0.1},
			}},
		},
	})
	require.NoError(t, err)
}

func TestCreateCommand(t *testing.T) {
	cfg := testClientConfig(t)
	api := fake.NewFakeAPI()

	filename := filepath.Join(t.TempDir(), "study.yaml")
	require.NoError(t, ioutil.WriteFile(filename, []byte(`
metrics:
- metric: val_acc
  goal: MAXIMIZE
parameters:
- parameter: learning_rate
  type: DOUBLE
  double_value_spec:
    min_value: 0.0001
    max_value: 0.1
`), 0600))

	cmd := NewCreateCommand(&CreateOptions{Options: Options{Config: cfg, StudiesAPI: api}})
	out, _, err := runCommand(t, cmd, "test_study", "-f", filename)
	require.NoError(t, err)
	assert.Equal(t, "projects/test-project/locations/us-central1/studies/test_study\n", out)

	// Creating the same study again loads the existing record instead of failing
	cmd = NewCreateCommand(&CreateOptions{Options: Options{Config: cfg, StudiesAPI: api}})
	out, _, err = runCommand(t, cmd, "test_study", "-f", filename)
	require.NoError(t, err)
	assert.Equal(t, "projects/test-project/locations/us-central1/studies/test_study\n", out)
}

func TestSuggestCommand(t *testing.T) {
	cfg := testClientConfig(t)
	api := fake.NewFakeAPI()
	newTestStudy(t, api, studiesv1.NewStudyName("test-project", "us-central1", "test_study"))

	cmd := NewSuggestCommand(&SuggestOptions{Options: Options{Config: cfg, StudiesAPI: api}, SuggestionCount: 1})
	out, _, err := runCommand(t, cmd, "test_study", "--client-id", "tuner_0")
	require.NoError(t, err)
	assert.Contains(t, out, "studies/test_study/trials/1")
	assert.Contains(t, out, "learning_rate")
}

func TestSuggestCommandNoTrials(t *testing.T) {
	cfg := testClientConfig(t)
	api := fake.NewFakeAPI()
	newTestStudy(t, api, studiesv1.NewStudyName("test-project", "us-central1", "test_study"))

	cmd := NewSuggestCommand(&SuggestOptions{Options: Options{Config: cfg, StudiesAPI: api}})
	out, errOut, err := runCommand(t, cmd, "test_study", "--count", "0")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "No suggestions available")
}

func TestReportCommand(t *testing.T) {
	cfg := testClientConfig(t)
	api := fake.NewFakeAPI()
	name := studiesv1.NewStudyName("test-project", "us-central1", "test_study")
	newTestStudy(t, api, name)

	_, err := api.SuggestTrials(context.Background(), name.String(), studiesv1.SuggestTrialsRequest{ClientID: "tuner_0", SuggestionCount: 1})
	require.NoError(t, err)

	cmd := NewReportCommand(&ReportOptions{Options: Options{Config: cfg, StudiesAPI: api}})
	_, _, err = runCommand(t, cmd, "test_study", "1", "--step", "1", "--elapsed", "2", "--metric", "val_acc=0.8")
	require.NoError(t, err)

	lst, err := api.ListTrials(context.Background(), name.String())
	require.NoError(t, err)
	require.Len(t, lst.Trials, 1)
	require.Len(t, lst.Trials[0].Measurements, 1)
	assert.Equal(t, studiesv1.Measurement{
		StepCount:   1,
		ElapsedTime: studiesv1.ElapsedTime{Seconds: 2},
		Metrics:     []studiesv1.Metric{{Metric: "val_acc", Value: 0.8}},
	}, lst.Trials[0].Measurements[0])
}

func TestCheckCommand(t *testing.T) {
	cfg := testClientConfig(t)
	api := fake.NewFakeAPI()
	name := studiesv1.NewStudyName("test-project", "us-central1", "test_study")
	newTestStudy(t, api, name)

	_, err := api.SuggestTrials(context.Background(), name.String(), studiesv1.SuggestTrialsRequest{ClientID: "tuner_0", SuggestionCount: 1})
	require.NoError(t, err)
	api.SetShouldStop(name.Trial("1"), true)

	cmd := NewCheckCommand(&CheckOptions{Options: Options{Config: cfg, StudiesAPI: api}})
	out, _, err := runCommand(t, cmd, "test_study", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Trial 1 stopped early.")

	lst, err := api.ListTrials(context.Background(), name.String())
	require.NoError(t, err)
	assert.Equal(t, studiesv1.TrialStateStopping, lst.Trials[0].State)
}

func TestCheckCommandKeepRunning(t *testing.T) {
	cfg := testClientConfig(t)
	api := fake.NewFakeAPI()
	name := studiesv1.NewStudyName("test-project", "us-central1", "test_study")
	newTestStudy(t, api, name)

	_, err := api.SuggestTrials(context.Background(), name.String(), studiesv1.SuggestTrialsRequest{ClientID: "tuner_0", SuggestionCount: 1})
	require.NoError(t, err)

	cmd := NewCheckCommand(&CheckOptions{Options: Options{Config: cfg, StudiesAPI: api}})
	out, _, err := runCommand(t, cmd, "test_study", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Trial 1 should keep running.")
}

func TestCompleteCommand(t *testing.T) {
	cfg := testClientConfig(t)
	api := fake.NewFakeAPI()
	name := studiesv1.NewStudyName("test-project", "us-central1", "test_study")
	newTestStudy(t, api, name)

	_, err := api.SuggestTrials(context.Background(), name.String(), studiesv1.SuggestTrialsRequest{ClientID: "tuner_0", SuggestionCount: 1})
	require.NoError(t, err)

	cmd := NewCompleteCommand(&CompleteOptions{Options: Options{Config: cfg, StudiesAPI: api}})
	out, _, err := runCommand(t, cmd, "test_study", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "state: COMPLETED")
}

func TestTrialsCommand(t *testing.T) {
	cfg := testClientConfig(t)
	api := fake.NewFakeAPI()
	name := studiesv1.NewStudyName("test-project", "us-central1", "test_study")
	newTestStudy(t, api, name)

	_, err := api.SuggestTrials(context.Background(), name.String(), studiesv1.SuggestTrialsRequest{ClientID: "tuner_0", SuggestionCount: 2})
	require.NoError(t, err)

	cmd := NewTrialsCommand(&TrialsOptions{Options: Options{Config: cfg, StudiesAPI: api}})
	out, _, err := runCommand(t, cmd, "test_study")
	require.NoError(t, err)
	assert.Contains(t, out, "trials/1")
	assert.Contains(t, out, "trials/2")
}

func TestTrialsCommandEmpty(t *testing.T) {
	cfg := testClientConfig(t)
	api := fake.NewFakeAPI()
	newTestStudy(t, api, studiesv1.NewStudyName("test-project", "us-central1", "test_study"))

	cmd := NewTrialsCommand(&TrialsOptions{Options: Options{Config: cfg, StudiesAPI: api}})
	out, errOut, err := runCommand(t, cmd, "test_study")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "No trials found.")
}

func TestParseMetrics(t *testing.T) {
	metrics, err := parseMetrics([]string{"val_acc=0.8", "loss=1.25"})
	require.NoError(t, err)
	assert.Equal(t, []studiesv1.Metric{
		{Metric: "val_acc", Value: 0.8},
		{Metric: "loss", Value: 1.25},
	}, metrics)

	_, err = parseMetrics([]string{"val_acc"})
	assert.Error(t, err)

	_, err = parseMetrics([]string{"val_acc=high"})
	assert.Error(t, err)
}
