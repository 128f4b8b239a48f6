package main

import (
	"os"

	"github.com/cleberrangel/time-perception-api/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
