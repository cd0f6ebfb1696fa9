package main

import (
	"os"

	"github.com/ayoisaiah/zenbreath/app"
	"github.com/ayoisaiah/zenbreath/internal/osutil"
	"github.com/ayoisaiah/zenbreath/report"
)

func run(args []string) error {
	return app.Get().Run(args)
}

func main() {
	err := run(os.Args)
	if err != nil {
		report.Error(err)
		os.Exit(int(osutil.ExitError))
	}
}
