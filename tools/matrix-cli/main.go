package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Run with `go run ./tools/matrix-cli`

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "Sparse Matrix Toolbox",
		HelpName:  "matrix",
		Usage:     "A set of utilities to create, combine and inspect stored sparse matrices",
		Copyright: "(c) 2024 Fantom Foundation",
		Flags:     []cli.Flag{},
		Commands: []*cli.Command{
			&createCommand,
			&randomCommand,
			&multiplyCommand,
			&normCommand,
			&getInfoCommand,
			&dropCommand,
		},
	}
}
