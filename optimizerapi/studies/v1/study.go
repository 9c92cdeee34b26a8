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

import "fmt"

// StudyName identifies a study within a project and region
type StudyName struct {
	// The project owning the study.
	Project string
	// The region hosting the study.
	Region string
	// The study identifier, unique within the parent location.
	StudyID string
}

// NewStudyName returns a study name for the given coordinates
func NewStudyName(project, region, studyID string) StudyName {
	return StudyName{Project: project, Region: region, StudyID: studyID}
}

// Parent returns the location resource name the study lives under
func (n StudyName) Parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", n.Project, n.Region)
}

// String returns the full study resource name
func (n StudyName) String() string {
	return n.Parent() + "/studies/" + n.StudyID
}

// Trial returns the resource name of a trial within this study
func (n StudyName) Trial(trialID string) string {
	return n.String() + "/trials/" + trialID
}

type Algorithm string

const (
	AlgorithmUnspecified           Algorithm = "ALGORITHM_UNSPECIFIED"
	AlgorithmGaussianProcessBandit Algorithm = "GAUSSIAN_PROCESS_BANDIT"
	AlgorithmGridSearch            Algorithm = "GRID_SEARCH"
	AlgorithmRandomSearch          Algorithm = "RANDOM_SEARCH"
)

type GoalType string

const (
	GoalMaximize GoalType = "MAXIMIZE"
	GoalMinimize GoalType = "MINIMIZE"
)

// MetricSpec names a metric being optimized and the direction to move it
type MetricSpec struct {
	// The name of the metric.
	Metric string `json:"metric"`
	// The optimization goal for the metric.
	Goal GoalType `json:"goal"`
}

type ParameterType string

const (
	ParameterTypeDouble      ParameterType = "DOUBLE"
	ParameterTypeInteger     ParameterType = "INTEGER"
	ParameterTypeCategorical ParameterType = "CATEGORICAL"
	ParameterTypeDiscrete    ParameterType = "DISCRETE"
)

type DoubleValueSpec struct {
	// The minimum value for the parameter.
	MinValue float64 `json:"min_value"`
	// The maximum value for the parameter.
	MaxValue float64 `json:"max_value"`
}

type IntegerValueSpec struct {
	// The minimum value for the parameter.
	MinValue int64 `json:"min_value"`
	// The maximum value for the parameter.
	MaxValue int64 `json:"max_value"`
}

type CategoricalValueSpec struct {
	// The feasible category values.
	Values []string `json:"values"`
}

type DiscreteValueSpec struct {
	// The feasible points, in increasing order.
	Values []float64 `json:"values"`
}

// ParameterSpec is a variable that is going to be tuned in a study
type ParameterSpec struct {
	// The name of the parameter.
	Parameter string `json:"parameter"`
	// The type of the parameter.
	Type ParameterType `json:"type"`

	DoubleValueSpec      *DoubleValueSpec      `json:"double_value_spec,omitempty"`
	IntegerValueSpec     *IntegerValueSpec     `json:"integer_value_spec,omitempty"`
	CategoricalValueSpec *CategoricalValueSpec `json:"categorical_value_spec,omitempty"`
	DiscreteValueSpec    *DiscreteValueSpec    `json:"discrete_value_spec,omitempty"`

	// Specs for parameters only evaluated when this parameter takes particular values.
	ChildParameterSpecs []ParameterSpec `json:"child_parameter_specs,omitempty"`
}

type DecayCurveAutomatedStoppingConfig struct {
	// Use elapsed time instead of step count as the measurement axis.
	UseElapsedTime bool `json:"use_elapsed_time,omitempty"`
}

type MedianAutomatedStoppingConfig struct {
	// Use elapsed time instead of step count as the measurement axis.
	UseElapsedTime bool `json:"use_elapsed_time,omitempty"`
}

// AutomatedStoppingConfig controls server side early stopping recommendations
type AutomatedStoppingConfig struct {
	DecayCurveStoppingConfig      *DecayCurveAutomatedStoppingConfig `json:"decay_curve_stopping_config,omitempty"`
	MedianAutomatedStoppingConfig *MedianAutomatedStoppingConfig     `json:"median_automated_stopping_config,omitempty"`
}

// StudyConfig combines the search space, metrics and suggestion algorithm. It is
// supplied once at study creation and never mutated by the client.
type StudyConfig struct {
	// Controls how the service will generate suggestions.
	Algorithm Algorithm `json:"algorithm,omitempty"`
	// The metrics being optimized in the study.
	Metrics []MetricSpec `json:"metrics"`
	// The search space of the study.
	Parameters []ParameterSpec `json:"parameters"`
	// Optional early stopping behavior.
	AutomatedStoppingConfig *AutomatedStoppingConfig `json:"automated_stopping_config,omitempty"`
}

type StudyState string

const (
	StudyStateActive    StudyState = "ACTIVE"
	StudyStateInactive  StudyState = "INACTIVE"
	StudyStateCompleted StudyState = "COMPLETED"
)

// Study is a named search configuration plus its accumulated trials
type Study struct {
	// The resource name of the study, assigned by the service.
	Name string `json:"name,omitempty"`
	// The configuration of the study.
	StudyConfig StudyConfig `json:"study_config"`
	// The current state of the study.
	State StudyState `json:"state,omitempty"`
	// Time the study was created.
	CreateTime string `json:"createTime,omitempty"`
	// Populated when the state is INACTIVE.
	InactiveReason string `json:"inactiveReason,omitempty"`
}
