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

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	optimizerclient "github.com/cloudtuner/optimizer-go/optimizerapi"
	"golang.org/x/oauth2"
)

const endpointAPI = "v1/"

type ErrorType string

const (
	ErrStudyInvalid       ErrorType = "study-invalid"
	ErrStudyAlreadyExists ErrorType = "study-already-exists"
	ErrStudyNotFound      ErrorType = "study-not-found"
	ErrTrialInvalid       ErrorType = "trial-invalid"
	ErrTrialNotFound      ErrorType = "trial-not-found"
	ErrOperationNotFound  ErrorType = "operation-not-found"
	ErrRateLimited        ErrorType = "rate-limited"
	ErrUnavailable        ErrorType = "service-unavailable"
	ErrUnauthorized       ErrorType = "unauthorized"
	ErrUnexpected         ErrorType = "unexpected"
)

// Error represents the API specific error conditions raised in response to HTTP status codes
type Error struct {
	// The API specific error condition.
	Type ErrorType
	// The server supplied (or synthesized) error message.
	Message string
	// The URL of the request that produced the error.
	Location string
	// Suggested wait before retrying, only set for rate-limited and unavailable errors.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Type)
}

// IsStudyAlreadyExists checks to see if the error is a creation conflict
func IsStudyAlreadyExists(err error) bool {
	aerr, ok := err.(*Error)
	return ok && aerr.Type == ErrStudyAlreadyExists
}

// IsStudyNotFound checks to see if the error is a "study not found" error
func IsStudyNotFound(err error) bool {
	aerr, ok := err.(*Error)
	return ok && aerr.Type == ErrStudyNotFound
}

// IsRateLimited checks to see if the error is a throttling signal
func IsRateLimited(err error) bool {
	aerr, ok := err.(*Error)
	return ok && aerr.Type == ErrRateLimited
}

// IsUnavailable checks to see if the error is a transient availability failure
func IsUnavailable(err error) bool {
	aerr, ok := err.(*Error)
	return ok && aerr.Type == ErrUnavailable
}

// IsUnauthorized checks to see if the error is an "unauthorized" error
func IsUnauthorized(err error) bool {
	// OAuth errors (e.g. fetching tokens) come out of `Do` wrapped in url.Error
	if uerr, ok := err.(*url.Error); ok {
		err = uerr.Unwrap()
	}
	if rerr, ok := err.(*oauth2.RetrieveError); ok {
		if rerr.Response.StatusCode == http.StatusUnauthorized {
			return true
		}
	}
	if aerr, ok := err.(*Error); ok {
		return aerr.Type == ErrUnauthorized
	}
	return false
}

// API provides bindings for the supported study, trial and operation endpoints
type API interface {
	CreateStudy(ctx context.Context, name StudyName, study Study) (Study, error)
	GetStudy(ctx context.Context, name string) (Study, error)
	SuggestTrials(ctx context.Context, parent string, req SuggestTrialsRequest) (Operation, error)
	AddMeasurement(ctx context.Context, trial string, measurement Measurement) error
	CheckEarlyStoppingState(ctx context.Context, trial string) (Operation, error)
	StopTrial(ctx context.Context, trial string) error
	CompleteTrial(ctx context.Context, trial string, req CompleteTrialRequest) (Trial, error)
	ListTrials(ctx context.Context, parent string) (TrialList, error)
	GetOperation(ctx context.Context, name string) (Operation, error)
}

// NewAPI returns a new API implementation for the specified client
func NewAPI(c optimizerclient.Client) API {
	return &httpAPI{client: c}
}

// NewForConfig returns a new API instance for the specified configuration
func NewForConfig(ctx context.Context, cfg optimizerclient.Config, transport http.RoundTripper) (API, error) {
	c, err := optimizerclient.NewClient(ctx, cfg, transport)
	if err != nil {
		return nil, err
	}
	return &httpAPI{client: c}, nil
}

type httpAPI struct {
	client optimizerclient.Client
}

func (h *httpAPI) CreateStudy(ctx context.Context, name StudyName, study Study) (Study, error) {
	s := Study{}
	u := h.client.URL(endpointAPI + name.Parent() + "/studies")
	u.RawQuery = url.Values{"studyId": []string{name.StudyID}}.Encode()

	req, err := httpNewJSONRequest(http.MethodPost, u.String(), study)
	if err != nil {
		return s, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return s, err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		err = json.Unmarshal(body, &s)
		return s, err
	case http.StatusBadRequest:
		return s, newError(ErrStudyInvalid, resp, body)
	case http.StatusConflict:
		return s, newError(ErrStudyAlreadyExists, resp, body)
	default:
		return s, newError(ErrUnexpected, resp, body)
	}
}

func (h *httpAPI) GetStudy(ctx context.Context, name string) (Study, error) {
	s := Study{}
	u := h.client.URL(endpointAPI + name).String()

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return s, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return s, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		err = json.Unmarshal(body, &s)
		return s, err
	case http.StatusNotFound:
		return s, newError(ErrStudyNotFound, resp, body)
	default:
		return s, newError(ErrUnexpected, resp, body)
	}
}

func (h *httpAPI) SuggestTrials(ctx context.Context, parent string, sr SuggestTrialsRequest) (Operation, error) {
	op := Operation{}
	u := h.client.URL(endpointAPI + parent + "/trials:suggest").String()

	req, err := httpNewJSONRequest(http.MethodPost, u, sr)
	if err != nil {
		return op, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return op, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		err = json.Unmarshal(body, &op)
		return op, err
	default:
		return op, newError(ErrUnexpected, resp, body)
	}
}

func (h *httpAPI) AddMeasurement(ctx context.Context, trial string, m Measurement) error {
	u := h.client.URL(endpointAPI + trial + ":addMeasurement").String()

	req, err := httpNewJSONRequest(http.MethodPost, u, struct {
		Measurement Measurement `json:"measurement"`
	}{Measurement: m})
	if err != nil {
		return err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return newError(ErrTrialInvalid, resp, body)
	case http.StatusNotFound:
		return newError(ErrTrialNotFound, resp, body)
	default:
		return newError(ErrUnexpected, resp, body)
	}
}

func (h *httpAPI) CheckEarlyStoppingState(ctx context.Context, trial string) (Operation, error) {
	op := Operation{}
	u := h.client.URL(endpointAPI + trial + ":checkEarlyStoppingState").String()

	req, err := http.NewRequest(http.MethodPost, u, nil)
	if err != nil {
		return op, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return op, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		err = json.Unmarshal(body, &op)
		return op, err
	case http.StatusNotFound:
		return op, newError(ErrTrialNotFound, resp, body)
	default:
		return op, newError(ErrUnexpected, resp, body)
	}
}

func (h *httpAPI) StopTrial(ctx context.Context, trial string) error {
	u := h.client.URL(endpointAPI + trial + ":stop").String()

	req, err := http.NewRequest(http.MethodPost, u, nil)
	if err != nil {
		return err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return newError(ErrTrialNotFound, resp, body)
	default:
		return newError(ErrUnexpected, resp, body)
	}
}

func (h *httpAPI) CompleteTrial(ctx context.Context, trial string, cr CompleteTrialRequest) (Trial, error) {
	t := Trial{}
	u := h.client.URL(endpointAPI + trial + ":complete").String()

	req, err := httpNewJSONRequest(http.MethodPost, u, cr)
	if err != nil {
		return t, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return t, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		err = json.Unmarshal(body, &t)
		return t, err
	case http.StatusBadRequest:
		return t, newError(ErrTrialInvalid, resp, body)
	case http.StatusNotFound:
		return t, newError(ErrTrialNotFound, resp, body)
	default:
		return t, newError(ErrUnexpected, resp, body)
	}
}

func (h *httpAPI) ListTrials(ctx context.Context, parent string) (TrialList, error) {
	lst := TrialList{}
	u := h.client.URL(endpointAPI + parent + "/trials").String()

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return lst, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return lst, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		err = json.Unmarshal(body, &lst)
		return lst, err
	default:
		return lst, newError(ErrUnexpected, resp, body)
	}
}

func (h *httpAPI) GetOperation(ctx context.Context, name string) (Operation, error) {
	op := Operation{}
	u := h.client.URL(endpointAPI + name).String()

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return op, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return op, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		err = json.Unmarshal(body, &op)
		return op, err
	case http.StatusNotFound:
		return op, newError(ErrOperationNotFound, resp, body)
	default:
		return op, newError(ErrUnexpected, resp, body)
	}
}

// httpNewJSONRequest returns a new HTTP request with a JSON payload
func httpNewJSONRequest(method, u string, body interface{}) (*http.Request, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, u, bytes.NewBuffer(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return req, err
}

// newError returns a new error with an API specific error condition, it also captures the details of the response
func newError(t ErrorType, resp *http.Response, body []byte) error {
	err := &Error{Type: t}

	// Unmarshal the response body to get the server supplied error message
	if mt, _, merr := mime.ParseMediaType(resp.Header.Get("Content-Type")); merr == nil && mt == "application/json" {
		st := struct {
			Error struct {
				Code    int32  `json:"code"`
				Message string `json:"message"`
				Status  string `json:"status"`
			} `json:"error"`
		}{}
		if json.Unmarshal(body, &st) == nil {
			err.Message = st.Error.Message
		}
	}

	// Capture the URL of the request
	if resp.Request != nil && resp.Request.URL != nil {
		err.Location = resp.Request.URL.String()
	}

	// Capture the Retry-After header for throttled and unavailable responses
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		ra, raerr := strconv.Atoi(resp.Header.Get("Retry-After"))
		if raerr != nil || ra < 1 {
			ra = 5
		} else if ra > 120 {
			ra = 120
		}
		err.RetryAfter = time.Duration(ra) * time.Second
	}

	// Report a more specific error if the status was undocumented for the call
	if err.Type == ErrUnexpected {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			err.Type = ErrUnauthorized
			if err.Message == "" {
				err.Message = "unauthorized"
			}
		case http.StatusTooManyRequests:
			err.Type = ErrRateLimited
			if err.Message == "" {
				err.Message = "rate limited"
			}
		case http.StatusServiceUnavailable:
			err.Type = ErrUnavailable
			if err.Message == "" {
				err.Message = "service unavailable"
			}
		}
	}

	// Make sure we have a message
	if err.Message == "" {
		switch resp.StatusCode {
		case http.StatusNotFound:
			err.Message = fmt.Sprintf("not found: %s", err.Location)
		default:
			err.Message = fmt.Sprintf("unexpected server response: %s", resp.Status)
		}
	}

	return err
}
