// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package main

import (
	"os"

	"github.com/multical/multicald/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
