// Package report prints user-facing outcomes of zenbreath commands
package report

import (
	"errors"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/zenbreath/internal/purchase"
)

// Error prints err. Cancelled purchases are informational and print as a
// warning.
func Error(err error) {
	if errors.Is(err, purchase.ErrTransactionCancelled) {
		pterm.Warning.Println(err)
		return
	}

	pterm.Error.Println(err)
}
