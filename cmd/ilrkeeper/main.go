package main

import (
	"os"

	"github.com/solatis/ilrkeeper/cmd/ilrkeeper/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
