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
	studiesv1 "github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1"
)

// disposition is the action a call site should take for a failed API call
type disposition int

const (
	// dispositionFatal failures surface immediately to the caller.
	dispositionFatal disposition = iota
	// dispositionRetry failures are transient, the same call may be reissued.
	dispositionRetry
	// dispositionDegrade failures are absorbed by returning a reduced result.
	dispositionDegrade
)

// classify maps a failed call to a disposition. Absorption is a narrowly scoped
// exception to a fail-fast policy: only the suggestion path degrades and only the
// registrar lookup retries; every other failure is fatal at every call site.
func classify(err error) disposition {
	switch {
	case studiesv1.IsUnavailable(err):
		return dispositionRetry
	case studiesv1.IsRateLimited(err):
		return dispositionDegrade
	default:
		return dispositionFatal
	}
}
