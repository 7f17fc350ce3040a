// logscrape - Log Reconstruction Tool
//
// logscrape reads rendered log files and reconstructs them into structured
// records, with multi-line tracebacks folded into the entries they belong to.
package main

import (
	"os"

	"github.com/logscrape/logscrape/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
