package main

import (
	"os"

	"fileservice/internal/app"
	"fileservice/internal/sentryx"
)

func main() {
	os.Exit(run())
}

func run() int {
	defer sentryx.RecoverPanicAndCapture()
	return app.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
