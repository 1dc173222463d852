package main

import (
	"fmt"

	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/matrix"
	"github.com/urfave/cli/v2"
)

var normCommand = cli.Command{
	Action: withStore(norm),
	Name:   "norm",
	Usage:  "prints the norms of a matrix",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&storeTypeFlag,
		&requiredNameFlag,
	},
}

var requiredNameFlag = cli.StringFlag{
	Name:     "name",
	Usage:    "the identity of the matrix",
	Required: true,
}

func norm(ctx *cli.Context, store rowstore.Store) error {
	table, err := matrix.Open(store, ctx.String(requiredNameFlag.Name))
	if err != nil {
		return err
	}
	norms, err := matrix.EvaluateNorms(table)
	if err != nil {
		return err
	}
	out := ctx.App.Writer
	fmt.Fprintf(out, "%v\n", table)
	for _, kind := range []matrix.NormKind{matrix.One, matrix.Frobenius, matrix.Infinity, matrix.Max} {
		value, err := norms.Get(kind)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\t%-10s %v\n", kind, value)
	}
	return nil
}
