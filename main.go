// Package main provides the entry point for the speech-server CLI.
package main

import "github.com/carli2/speech-server/cmd"

func main() {
	cmd.Execute()
}
