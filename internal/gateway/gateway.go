// Package gateway provides the payment gateways a zenbreath client can buy
// premium patterns through
package gateway

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/zenbreath/internal/apperr"
	"github.com/ayoisaiah/zenbreath/internal/osutil"
)

var (
	errUnexpectedStatus = &apperr.Error{
		Message: "invoice server responded with %d: %s",
	}

	errMalformedResponse = &apperr.Error{
		Message: "invoice server sent a malformed response",
	}

	errUnsupportedPlatform = errors.New("unsupported platform")
)

// Opener presents a payment link to the user.
type Opener func(url string) error

// PrintLink returns an Opener that writes the link to w.
func PrintLink(w io.Writer) Opener {
	return func(url string) error {
		_, err := fmt.Fprintf(
			w,
			"%s %s\n",
			pterm.Bold.Sprint("Complete the payment in Telegram:"),
			url,
		)

		return err
	}
}

// Browser returns an Opener that prints the link to w and then tries to
// open it with the platform's default handler.
func Browser(w io.Writer) Opener {
	printLink := PrintLink(w)

	return func(url string) error {
		if err := printLink(url); err != nil {
			return err
		}

		return openBrowser(url)
	}
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case osutil.Windows:
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).
			Start()
	case osutil.Darwin:
		return exec.Command("open", url).Start()
	default:
		return errUnsupportedPlatform
	}
}
