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

package fake

import (
	"context"
	"encoding/json"
	"fmt"

	v1 "github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1"
)

var _ v1.API = &FakeAPI{}

// FakeAPI is an in-memory implementation of the studies API for tests. Suggested
// trials take the lower bound (or first listed value) of each parameter and every
// operation completes immediately.
type FakeAPI struct {
	studies    map[string]v1.Study
	trials     map[string][]v1.Trial
	operations map[string]v1.Operation
	shouldStop map[string]bool
	opCount    int
}

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		studies:    make(map[string]v1.Study),
		trials:     make(map[string][]v1.Trial),
		operations: make(map[string]v1.Operation),
		shouldStop: make(map[string]bool),
	}
}

// SetShouldStop primes the early stopping recommendation for a trial
func (f *FakeAPI) SetShouldStop(trial string, shouldStop bool) {
	f.shouldStop[trial] = shouldStop
}

func (f *FakeAPI) CreateStudy(ctx context.Context, name v1.StudyName, study v1.Study) (v1.Study, error) {
	if _, ok := f.studies[name.String()]; ok {
		return v1.Study{}, &v1.Error{Type: v1.ErrStudyAlreadyExists, Message: fmt.Sprintf("study %q already exists", name.StudyID)}
	}

	study.Name = name.String()
	study.State = v1.StudyStateActive
	f.studies[study.Name] = study
	return study, nil
}

func (f *FakeAPI) GetStudy(ctx context.Context, name string) (v1.Study, error) {
	if s, ok := f.studies[name]; ok {
		return s, nil
	}
	return v1.Study{}, &v1.Error{Type: v1.ErrStudyNotFound, Message: fmt.Sprintf("study %q not found", name)}
}

func (f *FakeAPI) SuggestTrials(ctx context.Context, parent string, req v1.SuggestTrialsRequest) (v1.Operation, error) {
	s, ok := f.studies[parent]
	if !ok {
		return v1.Operation{}, &v1.Error{Type: v1.ErrStudyNotFound, Message: fmt.Sprintf("study %q not found", parent)}
	}

	resp := v1.SuggestTrialsResponse{}
	for i := int32(0); i < req.SuggestionCount; i++ {
		t := v1.Trial{
			Name:     fmt.Sprintf("%s/trials/%d", parent, len(f.trials[parent])+1),
			State:    v1.TrialStateActive,
			ClientID: req.ClientID,
		}
		for _, p := range s.StudyConfig.Parameters {
			t.Parameters = append(t.Parameters, suggestValue(p))
		}
		f.trials[parent] = append(f.trials[parent], t)
		resp.Trials = append(resp.Trials, t)
	}

	return f.completedOperation(resp)
}

func (f *FakeAPI) AddMeasurement(ctx context.Context, trial string, m v1.Measurement) error {
	t, err := f.trial(trial)
	if err != nil {
		return err
	}
	t.Measurements = append(t.Measurements, m)
	return nil
}

func (f *FakeAPI) CheckEarlyStoppingState(ctx context.Context, trial string) (v1.Operation, error) {
	if _, err := f.trial(trial); err != nil {
		return v1.Operation{}, err
	}
	return f.completedOperation(v1.CheckEarlyStoppingStateResponse{ShouldStop: f.shouldStop[trial]})
}

func (f *FakeAPI) StopTrial(ctx context.Context, trial string) error {
	t, err := f.trial(trial)
	if err != nil {
		return err
	}
	t.State = v1.TrialStateStopping
	return nil
}

func (f *FakeAPI) CompleteTrial(ctx context.Context, trial string, req v1.CompleteTrialRequest) (v1.Trial, error) {
	t, err := f.trial(trial)
	if err != nil {
		return v1.Trial{}, err
	}

	t.State = v1.TrialStateCompleted
	t.TrialInfeasible = req.TrialInfeasible
	t.InfeasibleReason = req.InfeasibleReason
	if !req.TrialInfeasible && len(t.Measurements) > 0 {
		t.FinalMeasurement = &t.Measurements[len(t.Measurements)-1]
	}
	return *t, nil
}

func (f *FakeAPI) ListTrials(ctx context.Context, parent string) (v1.TrialList, error) {
	return v1.TrialList{Trials: f.trials[parent]}, nil
}

func (f *FakeAPI) GetOperation(ctx context.Context, name string) (v1.Operation, error) {
	if op, ok := f.operations[name]; ok {
		return op, nil
	}
	return v1.Operation{}, &v1.Error{Type: v1.ErrOperationNotFound, Message: fmt.Sprintf("operation %q not found", name)}
}

func (f *FakeAPI) trial(name string) (*v1.Trial, error) {
	for parent := range f.trials {
		for i := range f.trials[parent] {
			if f.trials[parent][i].Name == name {
				return &f.trials[parent][i], nil
			}
		}
	}
	return nil, &v1.Error{Type: v1.ErrTrialNotFound, Message: fmt.Sprintf("trial %q not found", name)}
}

func (f *FakeAPI) completedOperation(payload interface{}) (v1.Operation, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return v1.Operation{}, err
	}

	f.opCount++
	op := v1.Operation{
		Name:     fmt.Sprintf("operations/%d", f.opCount),
		Done:     true,
		Response: b,
	}
	f.operations[op.Name] = op
	return op, nil
}

func suggestValue(p v1.ParameterSpec) v1.ParameterValue {
	v := v1.ParameterValue{Parameter: p.Parameter}
	switch {
	case p.DoubleValueSpec != nil:
		v.FloatValue = &p.DoubleValueSpec.MinValue
	case p.IntegerValueSpec != nil:
		v.IntValue = &p.IntegerValueSpec.MinValue
	case p.DiscreteValueSpec != nil && len(p.DiscreteValueSpec.Values) > 0:
		v.FloatValue = &p.DiscreteValueSpec.Values[0]
	case p.CategoricalValueSpec != nil && len(p.CategoricalValueSpec.Values) > 0:
		v.StringValue = &p.CategoricalValueSpec.Values[0]
	}
	return v
}
