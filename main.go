// main is the entry point for the callerid CLI.
package main

import (
	"os"

	"github.com/huangsam/callerid/cmd"
	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/internal/iocache"
	"github.com/huangsam/callerid/internal/logging"
)

func main() {
	logging.InitLogger()

	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
