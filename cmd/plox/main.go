package main

import (
	"os"

	"github.com/plu7o/plox/cmd/plox/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
