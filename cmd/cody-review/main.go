package main

import (
	"os"

	"github.com/eekwong/cody-code-review/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
