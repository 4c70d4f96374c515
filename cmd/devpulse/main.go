package main

import (
	"github.com/devpulse-labs/devpulse-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
