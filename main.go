// Package main is the entry point for the shuttlemetrics CLI tool, which
// analyzes badminton shuttle trajectories and computes rally tactics metrics.
package main

import "github.com/pable/go-shuttle-metrics/cmd"

func main() {
	cmd.Execute()
}
