// Package main provides the metasql CLI.
package main

import "github.com/metastack-labs/metasql/internal/cli"

func main() {
	cli.Execute()
}
