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

	"golang.org/x/exp/rand"
)

// RandomVariable produces the values of randomly populated matrices.
type RandomVariable interface {
	Sample(rng *rand.Rand) float64
}

// Uniform samples non-zero values uniformly from [Min, Max). A range
// containing no value other than zero produces zeros, which are not stored.
type Uniform struct {
	Min, Max float64
}

// DefaultVariable is used by population jobs without a configured variable.
var DefaultVariable RandomVariable = Uniform{Min: 0, Max: 1}

func (u Uniform) Sample(rng *rand.Rand) float64 {
	if u.Max <= u.Min {
		return u.Min
	}
	for {
		if value := u.Min + (u.Max-u.Min)*rng.Float64(); value != 0 {
			return value
		}
	}
}

func (u Uniform) String() string {
	return fmt.Sprintf("Uniform[%v, %v)", u.Min, u.Max)
}

// Exponential samples exponentially distributed values with the given rate.
type Exponential struct {
	Rate float64
}

func (e Exponential) Sample(rng *rand.Rand) float64 {
	rate := e.Rate
	if rate <= 0 {
		rate = 1
	}
	for {
		if value := rng.ExpFloat64() / rate; value != 0 {
			return value
		}
	}
}

func (e Exponential) String() string {
	return fmt.Sprintf("Exponential(%v)", e.Rate)
}
