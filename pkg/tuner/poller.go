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
	"context"
	"encoding/json"
	"fmt"
	"time"

	studiesv1 "github.com/cloudtuner/optimizer-go/optimizerapi/studies/v1"
)

const defaultPollInterval = 1 * time.Second

// OperationError reports a long running operation that completed with an error status
type OperationError struct {
	// The resource name of the failed operation.
	Name string
	// The terminal status reported by the service.
	Status studiesv1.Status
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s failed: %s", e.Name, e.Status.Message)
}

// Poller resolves long running operations by repeatedly fetching them until their
// completion flag is set. The loop has no intrinsic bound, callers requiring one
// must cancel the supplied context.
type Poller struct {
	// Interval is the delay between successive fetches, defaults to one second.
	Interval time.Duration
	// Sleep waits between polls; it exists so tests can run without real time
	// passing. The default honors context cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Poll fetches the named operation until it reports completion, then either
// surfaces the operation error or returns the response payload.
func (p *Poller) Poll(ctx context.Context, api studiesv1.API, name string) (json.RawMessage, error) {
	for {
		op, err := api.GetOperation(ctx, name)
		if err != nil {
			return nil, err
		}

		if op.Done {
			if op.Error != nil {
				return nil, &OperationError{Name: op.Name, Status: *op.Error}
			}
			return op.Response, nil
		}

		if err := p.sleep(ctx); err != nil {
			return nil, fmt.Errorf("polling operation %s: %w", name, err)
		}
	}
}

func (p *Poller) sleep(ctx context.Context) error {
	d := p.Interval
	if d <= 0 {
		d = defaultPollInterval
	}

	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
