package main

import (
	"fmt"

	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/matrix"
	"github.com/urfave/cli/v2"
)

var getInfoCommand = cli.Command{
	Action: withStore(getInfo),
	Name:   "info",
	Usage:  "lists the matrices of a store with their sizes and hashes",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&storeTypeFlag,
	},
}

func getInfo(ctx *cli.Context, store rowstore.Store) error {
	matrices, err := store.ListMatrices()
	if err != nil {
		return err
	}
	out := ctx.App.Writer
	fmt.Fprintf(out, "%d matrices\n", len(matrices))
	for _, meta := range matrices {
		table, err := matrix.Open(store, meta.Identity)
		if err != nil {
			return err
		}
		count, err := table.CountNonZero()
		if err != nil {
			return err
		}
		hash, err := table.Hash()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%v: %d non-zero entries, hash %v\n", meta, count, hash)
	}
	fmt.Fprintf(out, "Memory footprint:\n%s", store.GetMemoryFootprint().ToString("store"))
	return nil
}
