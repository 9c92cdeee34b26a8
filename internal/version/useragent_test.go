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

package version

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAgentString(t *testing.T) {
	cases := []struct {
		desc     string
		product  string
		comment  string
		version  string
		metadata string
		expected string
	}{
		{
			desc:     "default",
			product:  "Optimizer",
			version:  "v0.0.0-source",
			expected: "Optimizer/0.0.0-source",
		},
		{
			desc:     "release version",
			product:  "optimizer-go",
			version:  "v1.2.3",
			expected: "optimizer-go/1.2.3",
		},
		{
			desc:     "comment",
			product:  "tunectl",
			comment:  "linux",
			version:  "v1.2.3",
			expected: "tunectl/1.2.3 (linux)",
		},
		{
			desc:     "empty comment",
			product:  "tunectl",
			comment:  " (  ) ",
			version:  "v1.2.3",
			expected: "tunectl/1.2.3",
		},
		{
			desc:     "build metadata on pre-release",
			product:  "tunectl",
			version:  "v1.3.0-rc.1",
			metadata: "build.1",
			expected: "tunectl/1.3.0-rc.1 (build.1)",
		},
		{
			desc:     "no product",
			product:  "",
			version:  "v1.2.3",
			expected: "",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			defer func(v, m string) { Version, BuildMetadata = v, m }(Version, BuildMetadata)
			Version, BuildMetadata = c.version, c.metadata

			assert.Equal(t, c.expected, userAgentString(c.product, c.comment))
		})
	}
}

func TestTransportSetsHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := &http.Client{Transport: UserAgent("tunectl", "", nil)}
	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "tunectl/"+Version[1:], got)
}
