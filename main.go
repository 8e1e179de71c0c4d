// Package main is the entry point for the dugout CLI and API server: a stat
// aggregation and ranking service for tracked baseball games.
package main

import "github.com/slurve/dugout/cmd"

func main() {
	cmd.Execute()
}
