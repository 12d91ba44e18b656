// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/ironcore-dev/catr/internal/cmd/catr"
)

func main() {
	os.Exit(catr.Main(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
