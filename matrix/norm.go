// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package matrix

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// NormKind selects one of the supported matrix norms.
type NormKind int

const (
	One       NormKind = iota // maximum absolute column sum
	Frobenius                 // square root of the sum of squares
	Infinity                  // maximum absolute row sum
	Max                       // maximum absolute entry
)

var normNames = map[NormKind]string{
	One:       "one",
	Frobenius: "frobenius",
	Infinity:  "infinity",
	Max:       "max",
}

func (k NormKind) String() string {
	if name, found := normNames[k]; found {
		return name
	}
	return fmt.Sprintf("NormKind(%d)", int(k))
}

// ParseNormKind resolves the name of a norm as produced by NormKind.String.
func ParseNormKind(name string) (NormKind, error) {
	for kind, n := range normNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownNorm, "%q", name)
}

// Norms holds the value of every supported norm of a matrix.
type Norms struct {
	One       float64
	Frobenius float64
	Infinity  float64
	Max       float64
}

// Get returns the norm of the given kind.
func (n Norms) Get(kind NormKind) (float64, error) {
	switch kind {
	case One:
		return n.One, nil
	case Frobenius:
		return n.Frobenius, nil
	case Infinity:
		return n.Infinity, nil
	case Max:
		return n.Max, nil
	}
	return 0, errors.Wrapf(ErrUnknownNorm, "%v", kind)
}

// RowScanner is a matrix which can be traversed row by row.
type RowScanner interface {
	Scan(visit func(i int, row *SparseRow) error) error
}

// EvaluateNorms computes all norms with a single scan over the stored rows.
// Absent entries are zero and do not contribute.
func EvaluateNorms(m RowScanner) (Norms, error) {
	var res Norms
	var squares float64
	columnSums := map[int]float64{}
	err := m.Scan(func(_ int, row *SparseRow) error {
		rowSum := 0.0
		row.ForEach(func(column int, value float64) {
			abs := math.Abs(value)
			rowSum += abs
			squares += value * value
			columnSums[column] += abs
			res.Max = math.Max(res.Max, abs)
		})
		res.Infinity = math.Max(res.Infinity, rowSum)
		return nil
	})
	if err != nil {
		return Norms{}, err
	}
	for _, sum := range columnSums {
		res.One = math.Max(res.One, sum)
	}
	res.Frobenius = math.Sqrt(squares)
	return res, nil
}

// Norm evaluates a single norm of the given matrix.
func Norm(m RowScanner, kind NormKind) (float64, error) {
	if _, found := normNames[kind]; !found {
		return 0, errors.Wrapf(ErrUnknownNorm, "%v", kind)
	}
	norms, err := EvaluateNorms(m)
	if err != nil {
		return 0, err
	}
	return norms.Get(kind)
}
