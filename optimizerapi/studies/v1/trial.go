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

package v1

type TrialState string

const (
	TrialStateRequested TrialState = "REQUESTED"
	TrialStateActive    TrialState = "ACTIVE"
	TrialStateStopping  TrialState = "STOPPING"
	TrialStateCompleted TrialState = "COMPLETED"
)

// ParameterValue is a single parameter assignment within a trial
type ParameterValue struct {
	// The name of the parameter in the study the value corresponds to.
	Parameter string `json:"parameter"`
	// The value for a DOUBLE or DISCRETE parameter.
	FloatValue *float64 `json:"floatValue,omitempty"`
	// The value for an INTEGER parameter.
	IntValue *int64 `json:"intValue,omitempty"`
	// The value for a CATEGORICAL parameter.
	StringValue *string `json:"stringValue,omitempty"`
}

// Metric is an observed metric name/value pair
type Metric struct {
	// The name of the metric.
	Metric string `json:"metric"`
	// The observed value of the metric.
	Value float64 `json:"value"`
}

// ElapsedTime is the training time consumed when a measurement was taken
type ElapsedTime struct {
	Seconds int64 `json:"seconds"`
}

// Measurement is a set of metric values observed at a point during a trial.
// Immutable once reported.
type Measurement struct {
	// The number of steps the trial had trained for when the measurement was taken.
	StepCount int64 `json:"stepCount,omitempty"`
	// The elapsed training time when the measurement was taken.
	ElapsedTime ElapsedTime `json:"elapsedTime"`
	// The observed metric values, in reporting order.
	Metrics []Metric `json:"metrics"`
}

// Trial is one parameter assignment attempt within a study. The service owns the
// record; the client never caches it.
type Trial struct {
	// The resource name of the trial, assigned by the service.
	Name string `json:"name,omitempty"`
	// The current state of the trial.
	State TrialState `json:"state,omitempty"`
	// The parameter assignments for the trial.
	Parameters []ParameterValue `json:"parameters,omitempty"`
	// Intermediate measurements reported during the trial.
	Measurements []Measurement `json:"measurements,omitempty"`
	// The final measurement, present once the trial is completed.
	FinalMeasurement *Measurement `json:"finalMeasurement,omitempty"`
	// Indicator that the trial could not be evaluated.
	TrialInfeasible bool `json:"trial_infeasible,omitempty"`
	// Populated when the trial is infeasible.
	InfeasibleReason *string `json:"infeasible_reason,omitempty"`
	// The identity of the client the trial was suggested to.
	ClientID string `json:"clientId,omitempty"`
	// Time the trial was started.
	StartTime string `json:"startTime,omitempty"`
	// Time the trial reached a terminal state.
	EndTime string `json:"endTime,omitempty"`
}

type TrialList struct {
	// The list of trials, in service order.
	Trials []Trial `json:"trials"`
}

// SuggestTrialsRequest asks the service for a batch of suggested trials
type SuggestTrialsRequest struct {
	// The identity of the client requesting suggestions; the service uses it to
	// hand each pending suggestion to exactly one client.
	ClientID string `json:"client_id"`
	// The number of suggestions requested.
	SuggestionCount int32 `json:"suggestion_count"`
}

// SuggestTrialsResponse is the payload of a resolved suggest operation
type SuggestTrialsResponse struct {
	// The suggested trials.
	Trials []Trial `json:"trials,omitempty"`
}

// CheckEarlyStoppingStateResponse is the payload of a resolved early stopping operation
type CheckEarlyStoppingStateResponse struct {
	// True when the service recommends terminating the trial.
	ShouldStop bool `json:"shouldStop,omitempty"`
}

// CompleteTrialRequest marks a trial as completed
type CompleteTrialRequest struct {
	// Indicator that the trial could not be evaluated, FinalMeasurement is ignored when true.
	TrialInfeasible bool `json:"trial_infeasible"`
	// The reason the trial was infeasible, null otherwise.
	InfeasibleReason *string `json:"infeasible_reason"`
}
