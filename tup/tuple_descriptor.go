// Copyright 2025 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tup

import (
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/heaptuple/dconfig"
)

func init() {
	if v := os.Getenv(dconfig.EnvDisableOffsetCache); v != "" {
		disableOffsetCache = true
		logrus.Debugf("attribute offset caching disabled by %s", dconfig.EnvDisableOffsetCache)
	}
}

// disableOffsetCache disables offset caching for new TupleDescs.
// The cache is advisory; every access path must produce identical
// results with it off.
var disableOffsetCache = false

// VarLen is the length-class sentinel for variable-length attributes.
const VarLen int16 = -1

var (
	ErrBadAttrLen   = pkgerrors.New("unsupported attribute length")
	ErrBadAttrByVal = pkgerrors.New("attribute width too large to pass by value")
)

// AttrDesc describes one attribute of a tuple schema: its length
// class, alignment class, and whether values are stored inline or
// by reference.
type AttrDesc struct {
	Name  string
	Len   int16 // fixed byte count, or VarLen
	Align Alignment
	ByVal bool
}

type lengthClass uint8

const (
	fixed1 lengthClass = iota
	fixed2
	fixed4
	fixedOther
	varlena
)

// classify maps an AttrDesc onto a lengthClass, rejecting
// length/by-value combinations outside the supported set. Every
// descriptor is classified once at construction so that walkers can
// switch exhaustively with no unsupported-length branch.
func classify(ad AttrDesc) (lengthClass, error) {
	switch {
	case ad.Len == VarLen:
		if ad.ByVal {
			return 0, pkgerrors.Wrapf(ErrBadAttrByVal, "attribute %q is variable-length", ad.Name)
		}
		return varlena, nil
	case ad.Len == 1:
		return fixed1, nil
	case ad.Len == 2:
		return fixed2, nil
	case ad.Len == 4:
		return fixed4, nil
	case ad.Len > 4:
		if ad.ByVal && ad.Len != 8 {
			return 0, pkgerrors.Wrapf(ErrBadAttrByVal, "attribute %q has len %d", ad.Name, ad.Len)
		}
		return fixedOther, nil
	default:
		return 0, pkgerrors.Wrapf(ErrBadAttrLen, "attribute %q has len %d", ad.Name, ad.Len)
	}
}

// TupleDesc describes a tuple schema. Algorithms that size, fill,
// and decode tuples use a TupleDesc to interpret attribute bytes.
//
// A TupleDesc carries a side table of cached attribute offsets,
// lazily populated by the accessors. A cached offset is only valid
// for a tuple instance with no nulls and no variable-length
// attributes preceding that attribute, so only offsets in that
// invariant prefix are ever stored. Stores are idempotent and
// atomic: concurrent readers of tuples sharing a schema may race on
// population, and a racing writer always writes the same value.
type TupleDesc struct {
	Attrs []AttrDesc

	classes    []lengthClass
	hasVarlena bool
	noCache    bool
	cacheOffs  []atomic.Int32
}

// NewTupleDesc makes a TupleDesc from |attrs|. It returns an error
// if any attribute declares a length/by-value combination outside
// the supported set.
func NewTupleDesc(attrs ...AttrDesc) (*TupleDesc, error) {
	classes := make([]lengthClass, len(attrs))
	hasVarlena := false
	for i, ad := range attrs {
		lc, err := classify(ad)
		if err != nil {
			return nil, err
		}
		classes[i] = lc
		if lc == varlena {
			hasVarlena = true
		}
	}

	td := &TupleDesc{
		Attrs:      attrs,
		classes:    classes,
		hasVarlena: hasVarlena,
		noCache:    disableOffsetCache,
		cacheOffs:  make([]atomic.Int32, len(attrs)),
	}
	for i := range td.cacheOffs {
		td.cacheOffs[i].Store(-1)
	}
	return td, nil
}

// Count returns the number of attributes in the schema.
func (td *TupleDesc) Count() int {
	return len(td.Attrs)
}

// HasVarlena returns true if any attribute is variable-length.
func (td *TupleDesc) HasVarlena() bool {
	return td.hasVarlena
}

// WithoutOffsetCache returns a copy of |td| that never consults or
// populates cached offsets.
func (td *TupleDesc) WithoutOffsetCache() *TupleDesc {
	cp := &TupleDesc{
		Attrs:      td.Attrs,
		classes:    td.classes,
		hasVarlena: td.hasVarlena,
		noCache:    true,
		cacheOffs:  make([]atomic.Int32, len(td.Attrs)),
	}
	for i := range cp.cacheOffs {
		cp.cacheOffs[i].Store(-1)
	}
	return cp
}

// cachedOff returns the cached start offset of attribute |i|, or a
// non-positive value if unset. Offset zero belongs to attribute 0
// alone and is special-cased by callers, never trusted from here.
func (td *TupleDesc) cachedOff(i int) int32 {
	if td.noCache {
		return -1
	}
	return td.cacheOffs[i].Load()
}

func (td *TupleDesc) setCachedOff(i int, off ByteSize) {
	if td.noCache {
		return
	}
	td.cacheOffs[i].Store(int32(off))
}

// alignedOff rounds |off| up to attribute |i|'s boundary.
// Attributes of fixed size 1 are never rounded.
func (td *TupleDesc) alignedOff(i int, off ByteSize) ByteSize {
	if td.classes[i] == fixed1 {
		return off
	}
	return alignUp(off, td.Attrs[i].Align)
}

func (td *TupleDesc) expectAttnum(attnum int) {
	if attnum < 1 || attnum > len(td.Attrs) {
		panic("attribute number out of range for schema")
	}
}

// Format renders |values| and |nulls| against the schema, for logs
// and tests. By-value words print as decimal, references as hex.
func (td *TupleDesc) Format(values []Datum, nulls []bool) string {
	var sb strings.Builder
	sb.WriteString("( ")
	for i := range td.Attrs {
		if i > 0 {
			sb.WriteString(", ")
		}
		if nulls[i] {
			sb.WriteString("NULL")
			continue
		}
		if td.Attrs[i].ByVal {
			sb.WriteString(strconv.FormatUint(values[i].Word(), 10))
		} else {
			sb.WriteString(hex.EncodeToString(values[i].Ref()))
		}
	}
	sb.WriteString(" )")
	return sb.String()
}
