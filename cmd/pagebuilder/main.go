// Package main provides the entry point for the pagebuilder CLI.
//
// Usage:
//
//	pagebuilder serve
//	pagebuilder mcp
//	pagebuilder catalog
//	pagebuilder synth table --url /api/users
//
// See --help for all available options.
package main

func main() {
	Execute()
}
