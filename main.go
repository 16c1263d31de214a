package main

import (
	"context"
	"os"

	"github.com/ardnew/constl/cli"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if code := cli.Report(os.Stderr, err); code != 0 {
		os.Exit(code)
	}
}
