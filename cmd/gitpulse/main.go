// main is the entry point for the gitpulse CLI.
package main

import (
	"github.com/huangsam/gitpulse/cmd"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iostate"
)

func main() {
	err := cmd.Execute()
	iostate.CloseStore()
	if err != nil {
		contract.LogFatal("gitpulse failed", err)
	}
}
