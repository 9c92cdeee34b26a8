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

package tuner

import (
	"errors"
	"testing"

	studiesv1 "github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		desc     string
		err      error
		expected disposition
	}{
		{
			desc:     "unavailable",
			err:      &studiesv1.Error{Type: studiesv1.ErrUnavailable},
			expected: dispositionRetry,
		},
		{
			desc:     "rate limited",
			err:      &studiesv1.Error{Type: studiesv1.ErrRateLimited},
			expected: dispositionDegrade,
		},
		{
			desc:     "study not found",
			err:      &studiesv1.Error{Type: studiesv1.ErrStudyNotFound},
			expected: dispositionFatal,
		},
		{
			desc:     "study already exists",
			err:      &studiesv1.Error{Type: studiesv1.ErrStudyAlreadyExists},
			expected: dispositionFatal,
		},
		{
			desc:     "unauthorized",
			err:      &studiesv1.Error{Type: studiesv1.ErrUnauthorized},
			expected: dispositionFatal,
		},
		{
			desc:     "plain error",
			err:      errors.New("boom"),
			expected: dispositionFatal,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.expected, classify(c.err))
		})
	}
}
