// SPDX-License-Identifier: MPL-2.0

package main

import cmd "installbuilder-cli/cmd/installbuilder"

func main() {
	cmd.Execute()
}
