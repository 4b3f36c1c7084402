package main

import (
	"os"

	"github.com/wetrycode/freshserve/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
