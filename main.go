// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/restspecs/restspecs/cmd/restspecs"

func main() {
	cmd.Execute()
}
