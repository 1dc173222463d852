package main

import (
	"fmt"

	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/matrix"
	"github.com/urfave/cli/v2"
)

var dropCommand = cli.Command{
	Action: withStore(drop),
	Name:   "drop",
	Usage:  "deletes a matrix and all its entries",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&storeTypeFlag,
		&requiredNameFlag,
	},
}

func drop(ctx *cli.Context, store rowstore.Store) error {
	table, err := matrix.Open(store, ctx.String(requiredNameFlag.Name))
	if err != nil {
		return err
	}
	if err := table.Drop(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Dropped %s\n", table.Identity())
	return nil
}
