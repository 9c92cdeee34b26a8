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

package config

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"sigs.k8s.io/yaml"
)

// Loader is used to initially populate a client configuration
type Loader func(cfg *ClientConfig) error

// Config is the persistable client configuration data
type Config struct {
	// Project is the project the studies belong to.
	Project string `json:"project,omitempty"`
	// Region is the region hosting the studies; it determines the API endpoint.
	Region string `json:"region,omitempty"`
	// Endpoint overrides the region qualified endpoint, mainly for testing.
	Endpoint string `json:"endpoint,omitempty"`
	// Authorization holds the credential details for API requests.
	Authorization Authorization `json:"authorization,omitempty"`
}

// Authorization is the credential portion of the configuration
type Authorization struct {
	// Token is a static bearer token.
	Token string `json:"token,omitempty"`
	// ClientID is the identifier for a client credentials grant.
	ClientID string `json:"clientID,omitempty"`
	// ClientSecret is the secret for a client credentials grant.
	ClientSecret string `json:"clientSecret,omitempty"`
	// TokenURL is the token endpoint for a client credentials grant.
	TokenURL string `json:"tokenURL,omitempty"`
}

// Overrides are the runtime adjustments applied after the persisted configuration loads
type Overrides struct {
	Project  string
	Region   string
	Endpoint string
}

// ClientConfig is the structure used to manage configuration data
type ClientConfig struct {
	// Filename is the path to the configuration file; if left blank, it will be
	// populated using XDG base directory conventions on the next Load
	Filename string
	// Overrides to the configuration, e.g. from command line flags
	Overrides Overrides

	data Config
}

// Load will populate the client configuration
func (cc *ClientConfig) Load(extra ...Loader) error {
	var loaders []Loader
	loaders = append(loaders, fileLoader, envLoader)
	loaders = append(loaders, extra...)
	loaders = append(loaders, overrideLoader)
	for i := range loaders {
		if err := loaders[i](cc); err != nil {
			return err
		}
	}
	return nil
}

// Project returns the configured project
func (cc *ClientConfig) Project() string { return cc.data.Project }

// Region returns the configured region
func (cc *ClientConfig) Region() string { return cc.data.Region }

// Endpoint resolves the supplied path against the region qualified API root. Using
// the global service endpoint is incorrect for study resources, the host must be
// specific to the target region.
func (cc *ClientConfig) Endpoint(path string) (*url.URL, error) {
	root := cc.data.Endpoint
	if root == "" {
		if cc.data.Region == "" {
			return nil, fmt.Errorf("unable to determine endpoint: region is not configured")
		}
		root = fmt.Sprintf("https://%s-ml.googleapis.com/", cc.data.Region)
	}

	u, err := url.Parse(root)
	if err != nil {
		return nil, err
	}
	return u.ResolveReference(&url.URL{Path: path}), nil
}

// Authorize configures the supplied transport
func (cc *ClientConfig) Authorize(ctx context.Context, transport http.RoundTripper) (http.RoundTripper, error) {
	az := cc.data.Authorization

	switch {
	case az.ClientID != "" && az.TokenURL != "":
		c := clientcredentials.Config{
			ClientID:     az.ClientID,
			ClientSecret: az.ClientSecret,
			TokenURL:     az.TokenURL,
		}
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: transport})
		return &oauth2.Transport{Source: c.TokenSource(ctx), Base: transport}, nil

	case az.Token != "":
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: az.Token})
		return &oauth2.Transport{Source: src, Base: transport}, nil
	}

	// No authorization details, leave the transport unwrapped
	return transport, nil
}

// Marshal will write the data out
func (cc *ClientConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(cc.data)
}
