package main

import (
	"github.com/pandeptwidyaop/linkprefs/cmd/linkprefs/cli"
)

func main() {
	cli.Execute()
}
