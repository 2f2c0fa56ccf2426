// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/ChainSafe/inclusion-emulator/internal/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables overriding flags,
// for example IEMU_LOG=debug.
const EnvPrefix = "IEMU"

const (
	logLevelKey    = "log"
	noColourKey    = "no-color"
	metricsFileKey = "metrics-file"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "cmd"))

// NewRootCommand creates the root command with all its subcommands.
func NewRootCommand() (*cobra.Command, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "inclusion-emulator",
		Short: "Emulate the inclusion of parachain candidates",
		Long: `inclusion-emulator builds speculative chains of parachain candidates
on top of relay-chain blocks, checking every candidate against the
constraints it would operate under once its ancestors are included.
Usage:
	inclusion-emulator check scenario.toml
	inclusion-emulator check --revalidate-at 0xbb..bb scenario.toml
	IEMU_LOG=debug inclusion-emulator check scenario.toml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogger(v)
		},
	}

	if err := addStringFlagBindViper(v, cmd,
		"log", log.Info.String(),
		"Log level. Supports levels critical, error, warn, info, debug and trace",
		logLevelKey); err != nil {
		return nil, fmt.Errorf("failed to add --log flag: %w", err)
	}
	if err := addBoolFlagBindViper(v, cmd,
		"no-color", false,
		"Disable coloured log levels",
		noColourKey); err != nil {
		return nil, fmt.Errorf("failed to add --no-color flag: %w", err)
	}
	if err := addStringFlagBindViper(v, cmd,
		"metrics-file", "",
		"Write metrics in the Prometheus text format to this file once done",
		metricsFileKey); err != nil {
		return nil, fmt.Errorf("failed to add --metrics-file flag: %w", err)
	}

	cmd.AddCommand(newCheckCommand(v), newVersionCommand())

	return cmd, nil
}

func configureLogger(v *viper.Viper) error {
	level, err := log.ParseLevel(v.GetString(logLevelKey))
	if err != nil {
		return fmt.Errorf("parsing --log: %w", err)
	}

	format := log.FormatConsole
	if v.GetBool(noColourKey) {
		format = log.FormatPlain
	}

	log.Patch(
		log.SetLevel(level),
		log.SetFormat(format),
		log.SetWriter(os.Stderr),
	)
	return nil
}
