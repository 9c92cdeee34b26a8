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
	"io/ioutil"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestEndpoint(t *testing.T) {
	cases := []struct {
		desc     string
		data     Config
		path     string
		expected string
	}{
		{
			desc:     "regional root",
			data:     Config{Region: "us-central1"},
			expected: "https://us-central1-ml.googleapis.com/",
		},
		{
			desc:     "regional path",
			data:     Config{Region: "us-central1"},
			path:     "v1/projects/p/locations/us-central1/studies/s",
			expected: "https://us-central1-ml.googleapis.com/v1/projects/p/locations/us-central1/studies/s",
		},
		{
			desc:     "another region",
			data:     Config{Region: "europe-west1"},
			path:     "v1/operations/1",
			expected: "https://europe-west1-ml.googleapis.com/v1/operations/1",
		},
		{
			desc:     "verb suffix",
			data:     Config{Region: "us-central1"},
			path:     "v1/projects/p/locations/us-central1/studies/s/trials:suggest",
			expected: "https://us-central1-ml.googleapis.com/v1/projects/p/locations/us-central1/studies/s/trials:suggest",
		},
		{
			desc:     "endpoint override",
			data:     Config{Region: "us-central1", Endpoint: "http://localhost:8080/"},
			path:     "v1/operations/1",
			expected: "http://localhost:8080/v1/operations/1",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			cc := &ClientConfig{data: c.data}
			u, err := cc.Endpoint(c.path)
			require.NoError(t, err)
			assert.Equal(t, c.expected, u.String())
		})
	}
}

func TestEndpointRequiresRegion(t *testing.T) {
	cc := &ClientConfig{}
	_, err := cc.Endpoint("v1/operations/1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
}

func TestLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, ioutil.WriteFile(filename, []byte(`
project: file-project
region: us-central1
authorization:
  token: file-token
`), 0600))

	cc := &ClientConfig{Filename: filename}
	require.NoError(t, cc.Load())

	assert.Equal(t, "file-project", cc.Project())
	assert.Equal(t, "us-central1", cc.Region())
	assert.Equal(t, "file-token", cc.data.Authorization.Token)
}

func TestLoadMissingFile(t *testing.T) {
	cc := &ClientConfig{Filename: filepath.Join(t.TempDir(), "does-not-exist.yaml")}
	require.NoError(t, cc.Load())
	assert.Empty(t, cc.Project())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("OPTIMIZER_PROJECT", "env-project")
	t.Setenv("OPTIMIZER_REGION", "europe-west1")
	t.Setenv("OPTIMIZER_TOKEN", "env-token")

	cc := &ClientConfig{Filename: filepath.Join(t.TempDir(), "does-not-exist.yaml")}
	require.NoError(t, cc.Load())

	assert.Equal(t, "env-project", cc.Project())
	assert.Equal(t, "europe-west1", cc.Region())
	assert.Equal(t, "env-token", cc.data.Authorization.Token)
}

func TestLoadOverridesWin(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, ioutil.WriteFile(filename, []byte("project: file-project\nregion: us-central1\n"), 0600))

	cc := &ClientConfig{
		Filename:  filename,
		Overrides: Overrides{Project: "override-project", Endpoint: "http://localhost:8080/"},
	}
	require.NoError(t, cc.Load())

	assert.Equal(t, "override-project", cc.Project())
	assert.Equal(t, "us-central1", cc.Region())

	u, err := cc.Endpoint("v1/operations/1")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/v1/operations/1", u.String())
}

func TestAuthorizeStaticToken(t *testing.T) {
	cc := &ClientConfig{data: Config{Authorization: Authorization{Token: "test-token"}}}

	rt, err := cc.Authorize(context.Background(), http.DefaultTransport)
	require.NoError(t, err)

	ot, ok := rt.(*oauth2.Transport)
	require.True(t, ok)
	tok, err := ot.Source.Token()
	require.NoError(t, err)
	assert.Equal(t, "test-token", tok.AccessToken)
}

func TestAuthorizeNone(t *testing.T) {
	cc := &ClientConfig{}

	rt, err := cc.Authorize(context.Background(), http.DefaultTransport)
	require.NoError(t, err)
	assert.Equal(t, http.DefaultTransport, rt)
}
