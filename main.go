// Package main is the entry point for the bmtrack CLI, which tracks set scores
// for a multi-court doubles badminton event and archives finished events.
package main

import "github.com/pable/go-badminton-tracker/cmd"

func main() {
	cmd.Execute()
}
