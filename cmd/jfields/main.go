// Package main is the entry point for the jfields CLI tool.
package main

import (
	"github.com/jfields/jfields/internal/cmd"
)

func main() {
	cmd.Execute()
}
