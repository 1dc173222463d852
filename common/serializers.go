// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"encoding/binary"
	"math"
)

// Serializer converts values of type T to and from a fixed-size byte
// representation.
type Serializer[T any] interface {
	// ToBytes returns a fresh byte slice holding the serialized value.
	ToBytes(T) []byte
	// CopyBytes serializes the value into the given slice, which must be at
	// least Size() bytes long.
	CopyBytes(T, []byte)
	// FromBytes deserializes a value from the first Size() bytes.
	FromBytes([]byte) T
	// Size is the number of bytes of a serialized value.
	Size() int
}

// Identifier32Serializer is a big-endian Serializer of uint32. Big-endian
// keeps the byte order of serialized values equal to their numeric order.
type Identifier32Serializer struct{}

func (a Identifier32Serializer) ToBytes(value uint32) []byte {
	return binary.BigEndian.AppendUint32(make([]byte, 0, 4), value)
}
func (a Identifier32Serializer) CopyBytes(value uint32, out []byte) {
	binary.BigEndian.PutUint32(out, value)
}
func (a Identifier32Serializer) FromBytes(bytes []byte) uint32 {
	return binary.BigEndian.Uint32(bytes)
}
func (a Identifier32Serializer) Size() int {
	return 4
}

// Float64Serializer serializes float64 values as 8-byte IEEE-754 big-endian
// numbers.
type Float64Serializer struct{}

func (a Float64Serializer) ToBytes(value float64) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), math.Float64bits(value))
}
func (a Float64Serializer) CopyBytes(value float64, out []byte) {
	binary.BigEndian.PutUint64(out, math.Float64bits(value))
}
func (a Float64Serializer) FromBytes(bytes []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(bytes))
}
func (a Float64Serializer) Size() int {
	return 8
}
