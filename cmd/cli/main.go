// streamcard - Streamed Summary Card Parser
//
// streamcard splits the growing buffer of a streamed video summary into
// comment, summary and timeline cards.
package main

import (
	"os"

	"github.com/ccollicutt/streamcard/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
