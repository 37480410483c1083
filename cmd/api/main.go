// Package main is the entry point for the expense tracker API.
// Its sole responsibility is handing control to the command tree; wiring
// lives in the commands package and no business logic belongs here.
package main

import (
	"os"

	// Embeds the IANA zone database so REPORT_TIMEZONE works on minimal images.
	_ "time/tzdata"

	"github.com/pkordes/expense-tracker/cmd/api/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
