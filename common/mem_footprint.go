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
	"fmt"
	"sort"
	"strings"
)

// MemoryFootprint describes the memory consumption of a structure as a tree
// of named components.
type MemoryFootprint struct {
	value    uintptr
	children map[string]*MemoryFootprint
}

// NewMemoryFootprint creates a footprint node with the given own size.
func NewMemoryFootprint(value uintptr) *MemoryFootprint {
	return &MemoryFootprint{
		value:    value,
		children: make(map[string]*MemoryFootprint),
	}
}

// AddChild attaches the footprint of a sub-component.
func (mf *MemoryFootprint) AddChild(name string, child *MemoryFootprint) {
	mf.children[name] = child
}

// GetChild returns the footprint of the named sub-component, or nil.
func (mf *MemoryFootprint) GetChild(name string) *MemoryFootprint {
	return mf.children[name]
}

// Value is the size of this node excluding its children.
func (mf *MemoryFootprint) Value() uintptr {
	return mf.value
}

// Total is the size of this node including all children. Shared children
// are counted once.
func (mf *MemoryFootprint) Total() uintptr {
	return mf.total(make(map[*MemoryFootprint]struct{}))
}

func (mf *MemoryFootprint) total(seen map[*MemoryFootprint]struct{}) uintptr {
	if _, found := seen[mf]; found {
		return 0
	}
	seen[mf] = struct{}{}
	sum := mf.value
	for _, child := range mf.children {
		sum += child.total(seen)
	}
	return sum
}

// ToString renders the footprint tree, one line per node, children sorted
// by name. The root is labelled with the given name.
func (mf *MemoryFootprint) ToString(name string) string {
	var sb strings.Builder
	mf.write(&sb, name)
	return sb.String()
}

func (mf *MemoryFootprint) write(sb *strings.Builder, path string) {
	sb.WriteString(formatMemoryAmount(mf.Total()))
	sb.WriteRune(' ')
	sb.WriteString(path)
	sb.WriteRune('\n')
	names := make([]string, 0, len(mf.children))
	for name := range mf.children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mf.children[name].write(sb, path+"/"+name)
	}
}

// String formats the total size of the footprint.
func (mf *MemoryFootprint) String() string {
	return formatMemoryAmount(mf.Total())
}

func formatMemoryAmount(bytes uintptr) string {
	const unit = 1024
	const prefixes = "KMGTPE"
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uintptr(unit), 0
	for n := bytes / unit; n >= unit && exp+1 < len(prefixes); n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), prefixes[exp])
}
