// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is the version of the binary, set at build time with
// -ldflags "-X github.com/ChainSafe/inclusion-emulator/cmd/inclusion-emulator/commands.Version=v1.2.3".
var Version = "v0.1.0-dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of inclusion-emulator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "inclusion-emulator %s (%s)\n", fullVersion(), runtime.Version())
			return err
		},
	}
}

// fullVersion returns the version suffixed with the short VCS revision
// the binary was built from, if known.
func fullVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 8 {
			return Version + "-" + setting.Value[:8]
		}
	}
	return Version
}
