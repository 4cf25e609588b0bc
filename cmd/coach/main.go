// Package main provides the coach CLI tool for analyzing chess games with
// a UCI engine and producing coaching feedback.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
