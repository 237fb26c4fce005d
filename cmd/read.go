// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/multical/multicald/pkg/kmp"
)

var readJSON bool

var readCmd = &cobra.Command{
	Use:   "read [parameter...]",
	Short: "Read meter parameters once and print them",
	Long: `Perform one readout cycle against the meter and print the decoded values.

Parameters may be symbolic names (energy, temp1, ...), decimal register
addresses, or 0x-prefixed hex addresses. With no arguments, every parameter
known for the selected meter model is read.

Parameters the meter does not answer for are reported as missing, never as
zero. Exit code 1 means the cycle produced no readings at all.`,
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Print readings as a JSON object")
}

func runRead(cmd *cobra.Command, args []string) error {
	port, connInfo, err := openPort()
	if err != nil {
		return err
	}

	specs := make([]kmp.ParamSpec, 0, len(args))
	for _, arg := range args {
		specs = append(specs, kmp.ParseSpec(arg))
	}

	logger.Info().Str("connection", connInfo).Str("model", meterModel).Msg("reading meter")

	client := kmp.NewClient(port, meterModel, logger)
	readings, err := client.ReadAll(specs)
	if err != nil {
		return err
	}

	if readJSON {
		data, err := json.Marshal(readings)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		for _, key := range readings.Keys() {
			value, _ := readings.Get(key)
			fmt.Printf("%-16s %g\n", key, value)
		}
	}

	if failed := client.Stats().Failures(); failed > 0 {
		logger.Warn().Uint64("failed", failed).Msg("some parameters produced no reading")
	}
	if readings.Len() == 0 {
		fmt.Fprintln(os.Stderr, "no readings")
		os.Exit(1)
	}
	return nil
}
