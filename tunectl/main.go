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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudtuner/optimizer-go/tunectl/internal/commands"
	"github.com/spf13/cobra"
)

func init() {
	// Prevent Cobra from changing the command order
	cobra.EnableCommandSorting = false
}

func main() {
	cmd := commands.NewTunectlCommand()

	// The suggestion and early stopping commands block on long running operations,
	// an interrupt must be able to abort the poll loop
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
