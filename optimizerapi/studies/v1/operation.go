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

import "encoding/json"

// Status is the terminal error of a failed long running operation
type Status struct {
	// The numeric status code of the failure.
	Code int32 `json:"code,omitempty"`
	// A developer facing description of the failure.
	Message string `json:"message,omitempty"`
}

// Operation is a reference to an asynchronous server side task. It is transient:
// it only exists for the duration of a poll.
type Operation struct {
	// The resource name of the operation, assigned by the service.
	Name string `json:"name"`
	// Completion flag, the response or error is only meaningful once set.
	Done bool `json:"done,omitempty"`
	// The response payload of a successfully completed operation.
	Response json.RawMessage `json:"response,omitempty"`
	// The terminal error of a failed operation.
	Error *Status `json:"error,omitempty"`
}
