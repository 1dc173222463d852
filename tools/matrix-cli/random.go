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
	densityFlag = cli.Float64Flag{
		Name:  "density",
		Usage: "the fraction of non-zero entries",
		Value: matrix.DefaultDensity,
	}
	seedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "the seed of the random values; 0 derives one from the clock",
	}
	minFlag = cli.Float64Flag{
		Name:  "min",
		Usage: "the lower bound of the random values",
		Value: 0,
	}
	maxFlag = cli.Float64Flag{
		Name:  "max",
		Usage: "the upper bound of the random values",
		Value: 1,
	}
)

var randomCommand = cli.Command{
	Action: withStore(random),
	Name:   "random",
	Usage:  "creates a matrix of uniformly distributed random values",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&storeTypeFlag,
		&matrixNameFlag,
		&rowsFlag,
		&columnsFlag,
		&densityFlag,
		&seedFlag,
		&minFlag,
		&maxFlag,
		&workersFlag,
		&retriesFlag,
		&cpuProfilingFlag,
		&memoryIntervalFlag,
	},
}

func random(ctx *cli.Context, store rowstore.Store) error {
	table, err := matrix.CreateNamed(store, ctx.String(matrixNameFlag.Name), ctx.Int(rowsFlag.Name), ctx.Int(columnsFlag.Name))
	if err != nil {
		return err
	}
	params := matrix.NewPopulationJob(table.Identity())
	params.Density = ctx.Float64(densityFlag.Name)
	params.Workers = ctx.Int(workersFlag.Name)
	params.Seed = ctx.Uint64(seedFlag.Name)
	params.Variable = matrix.Uniform{Min: ctx.Float64(minFlag.Name), Max: ctx.Float64(maxFlag.Name)}

	start := time.Now()
	exec := executor(ctx)
	jobCtx, stop := interrupt.Register(ctx.Context)
	defer stop()
	if err := params.Run(jobCtx, store, exec); err != nil {
		if interrupt.IsInterrupted(jobCtx) {
			log.Printf("Population was interrupted, the matrix is incomplete")
		}
		return err
	}
	log.Printf("Population took %.1f seconds, %v", time.Since(start).Seconds(), exec.Stats())

	count, err := table.CountNonZero()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Created %v with %d non-zero entries\n", table, count)
	return nil
}
