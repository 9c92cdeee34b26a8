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
	"io/ioutil"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

// fileLoader populates the configuration from the config file, if it exists
func fileLoader(cc *ClientConfig) error {
	if cc.Filename == "" {
		cc.Filename = defaultFilename()
	}

	b, err := ioutil.ReadFile(cc.Filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return yaml.Unmarshal(b, &cc.data)
}

// envLoader overlays configuration from the process environment
func envLoader(cc *ClientConfig) error {
	if v := os.Getenv("OPTIMIZER_PROJECT"); v != "" {
		cc.data.Project = v
	}
	if v := os.Getenv("OPTIMIZER_REGION"); v != "" {
		cc.data.Region = v
	}
	if v := os.Getenv("OPTIMIZER_ENDPOINT"); v != "" {
		cc.data.Endpoint = v
	}
	if v := os.Getenv("OPTIMIZER_TOKEN"); v != "" {
		cc.data.Authorization.Token = v
	}
	return nil
}

// overrideLoader applies runtime overrides last so they always win
func overrideLoader(cc *ClientConfig) error {
	if cc.Overrides.Project != "" {
		cc.data.Project = cc.Overrides.Project
	}
	if cc.Overrides.Region != "" {
		cc.data.Region = cc.Overrides.Region
	}
	if cc.Overrides.Endpoint != "" {
		cc.data.Endpoint = cc.Overrides.Endpoint
	}
	return nil
}

// defaultFilename returns the XDG base directory location of the configuration file
func defaultFilename() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "optimizer", "config.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "optimizer", "config.yaml")
	}
	return ""
}
