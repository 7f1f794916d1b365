package main

import (
	"github.com/notargets/godynwave/cmd"
)

func main() {
	cmd.Execute()
}
