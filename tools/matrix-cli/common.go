package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/backend/rowstore/ldb"
	"github.com/Fantom-foundation/MatrixStore/backend/rowstore/sqlite"
	"github.com/Fantom-foundation/MatrixStore/common"
	"github.com/Fantom-foundation/MatrixStore/job"
	"github.com/urfave/cli/v2"
)

var (
	dbDirectoryFlag = cli.StringFlag{
		Name:     "dir",
		Usage:    "the directory holding the matrix store",
		Required: true,
	}
	storeTypeFlag = cli.StringFlag{
		Name:  "store",
		Usage: "the store implementation, leveldb or sqlite",
		Value: "leveldb",
	}
	matrixNameFlag = cli.StringFlag{
		Name:  "name",
		Usage: "the identity of the matrix; generated if empty",
	}
	rowsFlag = cli.IntFlag{
		Name:     "rows",
		Usage:    "the number of rows",
		Required: true,
	}
	columnsFlag = cli.IntFlag{
		Name:     "columns",
		Usage:    "the number of columns",
		Required: true,
	}
	workersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "the number of units processed in parallel",
		Value: runtime.NumCPU(),
	}
	retriesFlag = cli.IntFlag{
		Name:  "retries",
		Usage: "the number of times a failing unit is retried",
		Value: job.DefaultConfig().Retries,
	}
	cpuProfilingFlag = cli.StringFlag{
		Name:  "cpu-profile",
		Usage: "enable the recording of a CPU profile",
	}
	memoryIntervalFlag = cli.DurationFlag{
		Name:  "memory-interval",
		Usage: "log the memory usage in the given interval; disabled if 0",
	}
)

const sqliteFile = "matrix.sqlite"

// open opens the matrix store of the type selected by the store flag.
func open(storeType, dir string) (rowstore.Store, error) {
	switch storeType {
	case "leveldb":
		return ldb.Open(dir)
	case "sqlite":
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
		return sqlite.Open(filepath.Join(dir, sqliteFile))
	}
	return nil, fmt.Errorf("unknown store type %q", storeType)
}

// withStore wraps a command action to run with the store of the command's
// directory, closing it once the action is complete.
func withStore(action func(ctx *cli.Context, store rowstore.Store) error) cli.ActionFunc {
	return func(ctx *cli.Context) (err error) {
		profileTarget := ctx.String(cpuProfilingFlag.Name)
		if len(profileTarget) != 0 {
			if err := StartCPUProfile(profileTarget); err != nil {
				return err
			}
			defer StopCPUProfile()
		}

		dir := ctx.String(dbDirectoryFlag.Name)
		log.Printf("Opening %s store in %v ...", ctx.String(storeTypeFlag.Name), dir)
		store, err := open(ctx.String(storeTypeFlag.Name), dir)
		if err != nil {
			return err
		}
		defer func() {
			log.Printf("Closing store in %v ...", dir)
			if closeError := store.Close(); closeError != nil {
				if err == nil {
					err = closeError
				} else {
					log.Printf("Failure closing store: %v", closeError)
				}
			}
		}()
		interval := ctx.Duration(memoryIntervalFlag.Name)
		if interval <= 0 {
			return action(ctx, store)
		}
		return common.SampleMemoryUsage(interval, false, func() error {
			return action(ctx, store)
		}, common.LogMemoryUsage)
	}
}

func executor(ctx *cli.Context) *job.LocalExecutor {
	config := job.DefaultConfig()
	config.Workers = ctx.Int(workersFlag.Name)
	config.Retries = ctx.Int(retriesFlag.Name)
	return job.NewLocalExecutor(config)
}

func StartCPUProfile(profileName string) error {
	f, err := os.Create(profileName)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %s", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		return fmt.Errorf("could not start CPU profile: %s", err)
	}
	return nil
}

func StopCPUProfile() {
	pprof.StopCPUProfile()
}
