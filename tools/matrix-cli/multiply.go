package main

import (
	"fmt"
	"log"
	"time"

	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/common/interrupt"
	"github.com/Fantom-foundation/MatrixStore/matrix"
	"github.com/urfave/cli/v2"
)

var (
	leftFlag = cli.StringFlag{
		Name:     "left",
		Usage:    "the identity of the left operand",
		Required: true,
	}
	rightFlag = cli.StringFlag{
		Name:     "right",
		Usage:    "the identity of the right operand",
		Required: true,
	}
	rowsPerUnitFlag = cli.IntFlag{
		Name:  "rows-per-unit",
		Usage: "the number of result rows computed by one unit",
		Value: 1,
	}
)

var multiplyCommand = cli.Command{
	Action: withStore(multiply),
	Name:   "multiply",
	Usage:  "stores the product of two matrices in a new matrix",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&storeTypeFlag,
		&leftFlag,
		&rightFlag,
		&matrixNameFlag,
		&rowsPerUnitFlag,
		&workersFlag,
		&retriesFlag,
		&cpuProfilingFlag,
		&memoryIntervalFlag,
	},
}

func multiply(ctx *cli.Context, store rowstore.Store) error {
	left, err := matrix.Open(store, ctx.String(leftFlag.Name))
	if err != nil {
		return err
	}
	right, err := matrix.Open(store, ctx.String(rightFlag.Name))
	if err != nil {
		return err
	}
	rows, _ := left.Dimensions()
	_, columns := right.Dimensions()
	result, err := matrix.CreateNamed(store, ctx.String(matrixNameFlag.Name), rows, columns)
	if err != nil {
		return err
	}

	product := matrix.MultiplyJob{
		Left:        left.Identity(),
		Right:       right.Identity(),
		Result:      result.Identity(),
		RowsPerUnit: ctx.Int(rowsPerUnitFlag.Name),
	}
	start := time.Now()
	exec := executor(ctx)
	jobCtx, stop := interrupt.Register(ctx.Context)
	defer stop()
	if err := product.Run(jobCtx, store, exec); err != nil {
		if interrupt.IsInterrupted(jobCtx) {
			log.Printf("Multiplication was interrupted")
		}
		if dropError := result.Drop(); dropError != nil {
			log.Printf("Failure dropping incomplete result: %v", dropError)
		}
		return err
	}
	log.Printf("Multiplication took %.1f seconds, %v", time.Since(start).Seconds(), exec.Stats())
	fmt.Fprintf(ctx.App.Writer, "Created %v\n", result)
	return nil
}
