// Package main is the entry point of the fairprice CLI.
package main

import (
	"github.com/huangsam/fairprice/cmd"
	"github.com/huangsam/fairprice/internal/contract"
	"github.com/huangsam/fairprice/internal/history"
)

func main() {
	defer contract.SyncLogger()
	defer history.CloseHistory()

	cmd.SetHistoryManager(history.Manager)
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
	if err := cmd.StopProfiling(); err != nil {
		contract.LogWarn("Failed to stop profiling", err)
	}
}
