package main

import (
	"fmt"

	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/matrix"
	"github.com/urfave/cli/v2"
)

var createCommand = cli.Command{
	Action: withStore(create),
	Name:   "create",
	Usage:  "creates an empty matrix",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&storeTypeFlag,
		&matrixNameFlag,
		&rowsFlag,
		&columnsFlag,
	},
}

func create(ctx *cli.Context, store rowstore.Store) error {
	table, err := matrix.CreateNamed(store, ctx.String(matrixNameFlag.Name), ctx.Int(rowsFlag.Name), ctx.Int(columnsFlag.Name))
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Created %v\n", table)
	return nil
}
