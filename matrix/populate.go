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
	"context"
	"log"
	"math"
	"time"

	"github.com/Fantom-foundation/MatrixStore/backend/rowstore"
	"github.com/Fantom-foundation/MatrixStore/job"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

// DefaultDensity is the fraction of non-zero entries of random matrices.
const DefaultDensity = 0.5

// PopulationJob fills the rows of an existing matrix with random values.
// Every column of every row becomes non-zero with probability Density.
type PopulationJob struct {
	Destination string         // identity of the matrix to populate
	Density     float64        // in [0, 1]
	Workers     int            // number of units the rows are split into
	Variable    RandomVariable // DefaultVariable if nil
	Seed        uint64         // 0 derives a seed from the clock
	Start, End  int            // populated row range; End 0 extends to the last row
}

// NewPopulationJob creates a population job with default parameters.
func NewPopulationJob(destination string) PopulationJob {
	return PopulationJob{
		Destination: destination,
		Density:     DefaultDensity,
		Workers:     1,
		Variable:    DefaultVariable,
	}
}

// Run populates the destination matrix. Each row is written as soon as it
// is drawn. Each unit draws from its own generator seeded by the job seed
// and the unit id, so a retried unit rewrites identical rows.
func (p PopulationJob) Run(ctx context.Context, store rowstore.Store, executor job.Executor) error {
	if math.IsNaN(p.Density) || p.Density < 0 || p.Density > 1 {
		return errors.Wrapf(ErrInvalidDensity, "%v", p.Density)
	}
	destination, err := Open(store, p.Destination)
	if err != nil {
		return err
	}
	rows, columns := destination.Dimensions()
	start, end := p.Start, p.End
	if end == 0 {
		end = rows
	}
	if start < 0 || start > end || end > rows {
		return errors.Wrapf(ErrIndexOutOfRange, "rows [%d, %d) not in %d x %d", start, end, rows, columns)
	}
	variable := p.Variable
	if variable == nil {
		variable = DefaultVariable
	}
	seed := p.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Printf("populating rows [%d, %d) of %v with density %v, seed %d", start, end, destination, p.Density, seed)

	units := job.SplitRange(end-start, p.Workers)
	for i := range units {
		units[i].Start += start
		units[i].End += start
	}

	return job.RunStream(ctx, executor, job.Stream[int, *SparseRow]{
		Name:  "populate " + p.Destination,
		Units: units,
		Map: func(ctx context.Context, unit job.Unit, emit func(int, *SparseRow) error) error {
			rng := rand.New(rand.NewSource(unitSeed(seed, unit.ID)))
			row := NewSparseRow()
			for i := unit.Start; i < unit.End; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				row.Clear()
				for j := 0; j < columns; j++ {
					if rng.Float64() < p.Density {
						row.Set(j, variable.Sample(rng))
					}
				}
				if err := emit(i, row); err != nil {
					return err
				}
			}
			return nil
		},
		Commit: func(_ context.Context, i int, row *SparseRow) error {
			return permanent(destination.SetRow(i, row))
		},
	})
}

// unitSeed mixes the job seed and the unit id with the splitmix64 finalizer.
func unitSeed(seed uint64, unit int) uint64 {
	z := seed + uint64(unit+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Random creates a new rows x columns matrix and populates it with the
// given parameters. The Destination of the parameters is ignored.
func Random(ctx context.Context, store rowstore.Store, executor job.Executor, rows, columns int, params PopulationJob) (*Table, error) {
	if math.IsNaN(params.Density) || params.Density < 0 || params.Density > 1 {
		return nil, errors.Wrapf(ErrInvalidDensity, "%v", params.Density)
	}
	table, err := Create(store, rows, columns)
	if err != nil {
		return nil, err
	}
	params.Destination = table.Identity()
	params.Start, params.End = 0, 0
	if err := params.Run(ctx, store, executor); err != nil {
		return nil, errors.CombineErrors(err, table.Drop())
	}
	return table, nil
}
