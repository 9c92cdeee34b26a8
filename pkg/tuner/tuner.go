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

// Package tuner wraps the Optimizer API for hyperparameter tuning workflows: it
// registers studies, fetches suggestions, reports measurements and resolves the
// long running operations some calls produce.
package tuner

import (
	"context"
	"encoding/json"
	"fmt"

	studiesv1 "github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1"
	"github.com/go-logr/logr"
)

// fetchStudyTries bounds the lookup that resolves a creation conflict
const fetchStudyTries = 3

// Client is a per-study handle for the Optimizer API. An instance is permanently
// bound to exactly one study identity for its lifetime. It is safe for sequential
// use by a single caller; concurrent calls against the same trial must be
// serialized externally.
type Client struct {
	// API is the service bindings all calls go through.
	API studiesv1.API
	// Study is the identity every call is scoped to.
	Study studiesv1.StudyName
	// Poller resolves the long running operations produced by suggestion and
	// early stopping calls.
	Poller Poller
	// Log receives diagnostics for absorbed failures, may be nil.
	Log logr.Logger
}

// NewClient returns a client bound to the named study. Most callers should use
// CreateOrLoadStudy instead so the study is known to exist.
func NewClient(api studiesv1.API, study studiesv1.StudyName) *Client {
	return &Client{API: api, Study: study}
}

// CreateOrLoadStudy registers the named study with the supplied configuration and
// returns a client bound to it. Registration is idempotent with respect to
// concurrent creation by other actors.
func CreateOrLoadStudy(ctx context.Context, api studiesv1.API, study studiesv1.StudyName, sc studiesv1.StudyConfig) (*Client, error) {
	c := NewClient(api, study)
	if err := c.Register(ctx, sc); err != nil {
		return nil, err
	}
	return c, nil
}

// Register issues the create call for the bound study. A conflict means another
// actor already created (or is concurrently creating) the study; since that write
// may not be visible yet the study is fetched with a bounded number of attempts.
// Exhausting the attempts leaves the study in an indeterminate state and is always
// surfaced. Any non-conflict creation failure is fatal.
func (c *Client) Register(ctx context.Context, sc studiesv1.StudyConfig) error {
	_, err := c.API.CreateStudy(ctx, c.Study, studiesv1.Study{StudyConfig: sc})
	if err == nil {
		return nil
	}
	if !studiesv1.IsStudyAlreadyExists(err) {
		return err
	}

	var lastErr error
	for tries := 0; tries < fetchStudyTries; {
		if _, err := c.API.GetStudy(ctx, c.Study.String()); err == nil {
			return nil
		} else {
			lastErr = err
		}

		// Transient failures do not consume an attempt, they wait out one poll
		// interval instead (bounded by the caller's context)
		if classify(lastErr) == dispositionRetry {
			if err := c.Poller.sleep(ctx); err != nil {
				return err
			}
			continue
		}
		tries++
	}

	return fmt.Errorf("fetch study was not successful after %d tries: %w", fetchStudyTries, lastErr)
}

// GetSuggestions requests a batch of suggested trials for the supplied client
// identity and blocks until the resulting operation resolves. A throttled request
// is not an error: suggestion calls are expected to be rate limited under normal
// operation, so the caller gets an empty response and should back off before
// retrying the whole round.
func (c *Client) GetSuggestions(ctx context.Context, clientID string, suggestionCount int32) (studiesv1.SuggestTrialsResponse, error) {
	resp := studiesv1.SuggestTrialsResponse{}

	op, err := c.API.SuggestTrials(ctx, c.Study.String(), studiesv1.SuggestTrialsRequest{
		ClientID:        clientID,
		SuggestionCount: suggestionCount,
	})
	if err != nil {
		if classify(err) == dispositionDegrade {
			c.logInfo("suggestion request was throttled, returning no trials", "study", c.Study.String(), "clientID", clientID)
			return resp, nil
		}
		return resp, err
	}

	payload, err := c.Poller.Poll(ctx, c.API, op.Name)
	if err != nil {
		return resp, err
	}
	if len(payload) > 0 {
		err = json.Unmarshal(payload, &resp)
	}
	return resp, err
}

// ReportIntermediateObjectiveValue records a measurement against the named trial.
// Failures are never absorbed here: a silently dropped measurement corrupts the
// trial history.
func (c *Client) ReportIntermediateObjectiveValue(ctx context.Context, step, elapsedSecs int64, metrics []studiesv1.Metric, trialID string) error {
	m := studiesv1.Measurement{
		StepCount:   step,
		ElapsedTime: studiesv1.ElapsedTime{Seconds: elapsedSecs},
		Metrics:     metrics,
	}
	return c.API.AddMeasurement(ctx, c.Study.Trial(trialID), m)
}

// ShouldTrialStop asks the service whether the named trial should be terminated
// early. When the resolved recommendation is to stop, the trial is also marked
// stopped server side before returning; otherwise no stop call is issued.
func (c *Client) ShouldTrialStop(ctx context.Context, trialID string) (bool, error) {
	name := c.Study.Trial(trialID)

	op, err := c.API.CheckEarlyStoppingState(ctx, name)
	if err != nil {
		return false, err
	}

	payload, err := c.Poller.Poll(ctx, c.API, op.Name)
	if err != nil {
		return false, err
	}

	resp := studiesv1.CheckEarlyStoppingStateResponse{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &resp); err != nil {
			return false, err
		}
	}
	if !resp.ShouldStop {
		return false, nil
	}

	if err := c.API.StopTrial(ctx, name); err != nil {
		return false, err
	}
	return true, nil
}

// CompleteTrial marks the named trial completed (or infeasible with the supplied
// reason) and returns the service's trial record unchanged.
func (c *Client) CompleteTrial(ctx context.Context, trialID string, infeasible bool, infeasibleReason string) (studiesv1.Trial, error) {
	req := studiesv1.CompleteTrialRequest{TrialInfeasible: infeasible}
	if infeasibleReason != "" {
		req.InfeasibleReason = &infeasibleReason
	}
	return c.API.CompleteTrial(ctx, c.Study.Trial(trialID), req)
}

// ListTrials returns the trials of the bound study in whatever order the service
// returns them.
func (c *Client) ListTrials(ctx context.Context) ([]studiesv1.Trial, error) {
	lst, err := c.API.ListTrials(ctx, c.Study.String())
	if err != nil {
		return nil, err
	}
	return lst.Trials, nil
}

func (c *Client) logInfo(msg string, keysAndValues ...interface{}) {
	if c.Log != nil {
		c.Log.Info(msg, keysAndValues...)
	}
}
