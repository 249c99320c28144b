// Package main is the single-binary entrypoint for Ember.
// Ember is a local-first habit tracker — one binary, one SQLite file.
package main

import "github.com/ember-labs/ember/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
