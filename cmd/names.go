// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multical/multicald/pkg/kmp"
)

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "List the parameter names available for a meter model",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := kmp.NewRegistry(meterModel)

		fmt.Printf("Parameters for Multical %s:\n", reg.Model())
		for _, name := range reg.Names() {
			addr, err := reg.Resolve(kmp.Name(name))
			if err != nil {
				return err
			}
			fmt.Printf("  %-16s 0x%04X\n", name, addr)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(namesCmd)
}
