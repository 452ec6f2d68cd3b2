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
	"encoding/binary"

	pkgerrors "github.com/pkg/errors"

	"github.com/dolthub/heaptuple/pool"
)

// Index tuple header layout:
//
//	off size field
//	0   6    t_tid    pointer to the base row
//	6   2    t_info   size (bits 0-12) | has-varlena | has-null
//	8   -    bitmap   fixed BitmapLen(MaxIndexAttrs) bytes, iff has-null
//
// Attribute count is not stored; the descriptor supplies it.
const (
	indexTidOff     = 0
	indexInfoOff    = 6
	indexBitsOff    = 8
	indexHeaderSize = 8
	indexSizeMask   = 0x1FFF
	IndexVarMask    = 0x4000
	IndexNullMask   = 0x8000
)

// MaxIndexAttrs is the most attributes an index tuple can store.
const MaxIndexAttrs = 32

// IndexTuple is the packed encoding of one index entry: a minimal
// header holding a base-row pointer and a combined size/flags word,
// an optional fixed-size null bitmap, and the attribute data region.
type IndexTuple []byte

// NewIndexTuple builds an index tuple from |values| and |nulls|
// under schema |td|. The total size is Double-aligned and must fit
// the 13-bit size field of t_info.
func NewIndexTuple(bp pool.BuffPool, td *TupleDesc, values []Datum, nulls []bool) (IndexTuple, error) {
	natts := td.Count()
	if natts > MaxIndexAttrs {
		return nil, pkgerrors.Wrapf(ErrTooManyAttrs, "%d > %d", natts, MaxIndexAttrs)
	}

	hasnull := false
	for i := 0; i < natts && !hasnull; i++ {
		hasnull = nulls[i]
	}

	var info uint16
	if hasnull {
		info |= IndexNullMask
	}

	hoff := indexDataOffset(info)
	size := alignUp(hoff+DataSize(td, values, nulls), AlignDouble)
	if size & ^ByteSize(indexSizeMask) != 0 {
		return nil, pkgerrors.Wrapf(ErrTupleTooLarge, "data takes %d bytes", size)
	}

	t := IndexTuple(getZeroed(bp, size))

	var bits nullMask
	if hasnull {
		bits = nullMask(t[indexBitsOff : ByteSize(indexBitsOff)+BitmapLen(MaxIndexAttrs)])
	}
	flags := DataFill(t[hoff:], td, values, nulls, bits)
	if flags&HasVarlena != 0 {
		info |= IndexVarMask
	}

	info |= uint16(size)
	binary.LittleEndian.PutUint16(t[indexInfoOff:], info)

	indexTuplesFormed.Inc()
	return t, nil
}

// indexDataOffset computes the data start for an info word: the
// bare header when no bitmap is present, otherwise the header plus
// the fixed-size bitmap, Double-aligned.
func indexDataOffset(info uint16) ByteSize {
	if info&IndexNullMask == 0 {
		return indexHeaderSize
	}
	return alignUp(ByteSize(indexHeaderSize)+BitmapLen(MaxIndexAttrs), AlignDouble)
}

// Copy returns an independently owned duplicate of the tuple.
func (t IndexTuple) Copy(bp pool.BuffPool) IndexTuple {
	cp := bp.Get(uint64(t.Size()))
	copy(cp, t[:t.Size()])
	return cp
}

// GetAttr returns the decoded value of 1-based attribute |attnum|
// and an is-null flag, with the same semantics as the heap decoder.
func (t IndexTuple) GetAttr(attnum int, td *TupleDesc) (Datum, bool) {
	return getAttr(t.layout(), attnum, td)
}

func (t IndexTuple) layout() tupleLayout {
	info := t.info()
	var bits nullMask
	if info&IndexNullMask != 0 {
		bits = nullMask(t[indexBitsOff : ByteSize(indexBitsOff)+BitmapLen(MaxIndexAttrs)])
	}
	return tupleLayout{
		data:   t[indexDataOffset(info):],
		bits:   bits,
		hasVar: info&IndexVarMask != 0,
	}
}

// Size returns the total byte length of the tuple.
func (t IndexTuple) Size() ByteSize {
	return ByteSize(t.info() & indexSizeMask)
}

// Hoff returns the byte offset where attribute data begins.
func (t IndexTuple) Hoff() ByteSize {
	return indexDataOffset(t.info())
}

// Tid returns the pointer to the base row.
func (t IndexTuple) Tid() ItemPointer {
	return readItemPointer(t[indexTidOff:])
}

// SetTid stamps the base-row pointer.
func (t IndexTuple) SetTid(ip ItemPointer) {
	writeItemPointer(t[indexTidOff:], ip)
}

// HasNulls returns true if any stored attribute is null.
func (t IndexTuple) HasNulls() bool {
	return t.info()&IndexNullMask != 0
}

func (t IndexTuple) info() uint16 {
	return binary.LittleEndian.Uint16(t[indexInfoOff:])
}
