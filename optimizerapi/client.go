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

package optimizerapi

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/cloudtuner/optimizer-go/internal/version"
	"golang.org/x/time/rate"
)

// Client-side pacing of outbound requests, the service throttles aggressively.
const (
	requestsPerSecond = 10
	requestBurst      = 5
)

// Config exposes the information for configuring an Optimizer client
type Config interface {
	// Endpoint returns a URL to the Optimizer API for the configured region. The
	// path is resolved relative to the region qualified root of the service.
	Endpoint(path string) (*url.URL, error)

	// Authorize returns a transport that applies the authorization defined by this
	// configuration. The supplied context is used for any additional requests
	// necessary to perform authentication. If this configuration does not define
	// any authorization details, the supplied transport may be returned directly.
	Authorize(ctx context.Context, transport http.RoundTripper) (http.RoundTripper, error)
}

// Client is the underlying transport used to access the Optimizer API
type Client interface {
	URL(endpoint string) *url.URL
	Do(context.Context, *http.Request) (*http.Response, []byte, error)
}

// NewClient returns a new client for accessing Optimizer APIs; the supplied context is
// used for authentication/authorization requests and the supplied transport (which may
// be nil in the case of the default transport) is used for all requests made to the
// API server.
func NewClient(ctx context.Context, cfg Config, transport http.RoundTripper) (Client, error) {
	var err error

	hc := &httpClient{config: cfg}
	hc.client.Timeout = 10 * time.Second
	hc.limit = rate.NewLimiter(requestsPerSecond, requestBurst)

	// Every request identifies the client build
	transport = version.UserAgent("optimizer-go", "", transport)

	// Configure the OAuth2 transport
	hc.client.Transport, err = cfg.Authorize(ctx, transport)
	if err != nil {
		return nil, err
	}

	// Make sure that we can ignore the error from Endpoint
	_, err = cfg.Endpoint("")
	if err != nil {
		return nil, err
	}

	return hc, nil
}

type httpClient struct {
	config Config
	client http.Client
	limit  *rate.Limiter
}

func (c *httpClient) URL(ep string) *url.URL {
	u, _ := c.config.Endpoint(ep)
	return u
}

func (c *httpClient) Do(ctx context.Context, req *http.Request) (*http.Response, []byte, error) {
	if err := c.limit.Wait(ctx); err != nil {
		return nil, nil, err
	}

	if ctx != nil {
		req = req.WithContext(ctx)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var body []byte
	done := make(chan struct{})
	go func() {
		body, err = ioutil.ReadAll(resp.Body)
		close(done)
	}()

	select {
	case <-ctx.Done():
		<-done
		err = resp.Body.Close()
		if err == nil {
			err = ctx.Err()
		}
	case <-done:
	}

	return resp, body, err
}
