// SPDX-License-Identifier: EPL-2.0

// Command composer renders, inspects and converts song documents.
package main

func main() {
	Execute()
}
