// Command formula evaluates formulas given as arguments, or one per line from
// a file or standard input.
package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("formula"),
		kong.Description("Evaluate business-rule formulas."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "~/.config/formula/config.json"),
	)
	err := cli.run(os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		if !errors.Is(err, errFailed) {
			cli.Log.logger(os.Stderr).Error("run failed", "error", err)
		}
		os.Exit(1)
	}
}
