// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/grocerydist/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
