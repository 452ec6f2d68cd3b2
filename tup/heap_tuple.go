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

// Heap tuple header layout, little-endian throughout:
//
//	off size field
//	0   4    t_len      total tuple length in bytes
//	4   6    t_ctid     self-locator
//	10  4    t_oid
//	14  4    t_xmin
//	18  4    t_cmin
//	22  4    t_xmax
//	26  4    t_cmax
//	30  2    t_natts
//	32  2    t_infomask
//	34  1    t_hoff     data start offset
//	35  -    t_bits     null bitmap, present iff HasNull
const (
	heapLenOff      = 0
	heapCtidOff     = 4
	heapOidOff      = 10
	heapXminOff     = 14
	heapCminOff     = 18
	heapXmaxOff     = 22
	heapCmaxOff     = 26
	heapNattsOff    = 30
	heapInfomaskOff = 32
	heapHoffOff     = 34
	heapBitsOff     = 35

	heapHeaderBaseSize = 35
)

// XmaxInvalid marks the deleting-transaction slot as unset. It is
// stamped by the builders; interpreting it belongs to the
// visibility layer, not this codec.
const XmaxInvalid uint16 = 0x0800

const (
	// MaxTupleAttrs is the most attributes a heap tuple can store.
	MaxTupleAttrs = 1600
	// MaxHeapTupleSize bounds the total byte length of a heap tuple.
	MaxHeapTupleSize = 8192
)

var (
	ErrTooManyAttrs     = pkgerrors.New("attribute count exceeds format maximum")
	ErrTupleTooLarge    = pkgerrors.New("tuple size exceeds format maximum")
	ErrBadReplaceAction = pkgerrors.New("replace action is neither KeepOriginal nor SetReplacement")
)

// HeapTuple is the packed on-disk encoding of one row: a fixed
// header, an optional null bitmap, alignment padding, and the
// attribute data region. Immutable once built, except for the
// self-locator stamped by the owner at placement.
type HeapTuple []byte

// NewHeapTuple builds a heap tuple from |values| and |nulls| under
// schema |td|.
func NewHeapTuple(bp pool.BuffPool, td *TupleDesc, values []Datum, nulls []bool) (HeapTuple, error) {
	natts := td.Count()
	if natts > MaxTupleAttrs {
		return nil, pkgerrors.Wrapf(ErrTooManyAttrs, "%d > %d", natts, MaxTupleAttrs)
	}

	hasnull := false
	for i := 0; i < natts && !hasnull; i++ {
		hasnull = nulls[i]
	}

	hlen := ByteSize(heapHeaderBaseSize)
	if hasnull {
		hlen += BitmapLen(natts)
	}
	hoff := alignUp(hlen, AlignDouble)

	tlen := hoff + DataSize(td, values, nulls)
	if tlen > MaxHeapTupleSize {
		return nil, pkgerrors.Wrapf(ErrTupleTooLarge, "%d > %d", tlen, MaxHeapTupleSize)
	}

	t := HeapTuple(getZeroed(bp, tlen))
	binary.LittleEndian.PutUint32(t[heapLenOff:], uint32(tlen))
	binary.LittleEndian.PutUint16(t[heapNattsOff:], uint16(natts))
	t[heapHoffOff] = uint8(hoff)

	var bits nullMask
	if hasnull {
		bits = nullMask(t[heapBitsOff : ByteSize(heapBitsOff)+BitmapLen(natts)])
	}
	flags := DataFill(t[hoff:], td, values, nulls, bits)
	binary.LittleEndian.PutUint16(t[heapInfomaskOff:], flags|XmaxInvalid)

	heapTuplesFormed.Inc()
	return t, nil
}

// WrapHeapTuple builds a minimal-header heap tuple directly around
// an already-encoded opaque |payload|. No null bitmap is written
// and no descriptor is consulted; collaborators that store internal
// bookkeeping structures as tuples use this.
func WrapHeapTuple(bp pool.BuffPool, natts int, payload []byte) (HeapTuple, error) {
	expectTrue(natts > 0)
	if natts > MaxTupleAttrs {
		return nil, pkgerrors.Wrapf(ErrTooManyAttrs, "%d > %d", natts, MaxTupleAttrs)
	}

	hoff := alignUp(heapHeaderBaseSize, AlignDouble)
	tlen := hoff + ByteSize(len(payload))
	if tlen > MaxHeapTupleSize {
		return nil, pkgerrors.Wrapf(ErrTupleTooLarge, "%d > %d", tlen, MaxHeapTupleSize)
	}

	t := HeapTuple(getZeroed(bp, tlen))
	binary.LittleEndian.PutUint32(t[heapLenOff:], uint32(tlen))
	binary.LittleEndian.PutUint16(t[heapNattsOff:], uint16(natts))
	binary.LittleEndian.PutUint16(t[heapInfomaskOff:], XmaxInvalid)
	t[heapHoffOff] = uint8(hoff)
	copy(t[hoff:], payload)

	heapTuplesFormed.Inc()
	return t, nil
}

// Copy returns an independently owned duplicate of the tuple.
func (t HeapTuple) Copy(bp pool.BuffPool) HeapTuple {
	cp := bp.Get(uint64(t.Len()))
	copy(cp, t[:t.Len()])
	return cp
}

// GetAttr returns the decoded value of 1-based attribute |attnum|
// and an is-null flag, exactly as passed to the builder. Attribute
// numbers beyond the schema panic; numbers within the schema but
// beyond the tuple's stored attribute count decode as null.
func (t HeapTuple) GetAttr(attnum int, td *TupleDesc) (Datum, bool) {
	td.expectAttnum(attnum)
	if attnum > int(t.NumAttrs()) {
		return Datum{}, true
	}
	return getAttr(t.layout(), attnum, td)
}

func (t HeapTuple) layout() tupleLayout {
	var bits nullMask
	if t.Infomask()&HasNull != 0 {
		bits = nullMask(t[heapBitsOff : ByteSize(heapBitsOff)+BitmapLen(int(t.NumAttrs()))])
	}
	return tupleLayout{
		data:   t[t.Hoff():],
		bits:   bits,
		hasVar: t.Infomask()&HasVarlena != 0,
	}
}

// IsNull returns true iff attribute |attnum| is null. Attribute
// numbers beyond the tuple's stored count are null; system
// attributes never are.
func (t HeapTuple) IsNull(attnum int) bool {
	if attnum > 0 {
		if attnum > int(t.NumAttrs()) {
			return true
		}
		if t.Infomask()&HasNull == 0 {
			return false
		}
		bits := nullMask(t[heapBitsOff:])
		return !bits.present(attnum - 1)
	}
	switch attnum {
	case SelfItemPointerAttrNumber, ObjectIdAttrNumber,
		MinTransactionIdAttrNumber, MinCommandIdAttrNumber,
		MaxTransactionIdAttrNumber, MaxCommandIdAttrNumber:
		return false
	case 0:
		panic("zero attnum disallowed")
	default:
		panic("undefined negative attnum")
	}
}

// Deform decodes every attribute into |values| and |nulls|, the
// inverse of NewHeapTuple. Both slices must have the schema's width.
func (t HeapTuple) Deform(td *TupleDesc, values []Datum, nulls []bool) {
	expectTrue(len(values) == td.Count() && len(nulls) == td.Count())
	for i := 0; i < td.Count(); i++ {
		values[i], nulls[i] = t.GetAttr(i+1, td)
	}
}

// ReplaceAction selects, per attribute, whether ModifyHeapTuple
// keeps the original value or takes the replacement.
type ReplaceAction byte

const (
	KeepOriginal ReplaceAction = iota
	SetReplacement
)

// ModifyHeapTuple builds a new tuple from |t| and a set of
// replacement values; tuples are never mutated in place. Identity
// metadata (oid and transaction markers) carries over from the
// original; length, attribute count, header offset, bitmap, and
// flags are recomputed.
func ModifyHeapTuple(bp pool.BuffPool, t HeapTuple, td *TupleDesc,
	replValues []Datum, replNulls []bool, actions []ReplaceAction) (HeapTuple, error) {

	natts := td.Count()
	values := make([]Datum, natts)
	nulls := make([]bool, natts)

	for i := 0; i < natts; i++ {
		switch actions[i] {
		case KeepOriginal:
			values[i], nulls[i] = t.GetAttr(i+1, td)
		case SetReplacement:
			values[i], nulls[i] = replValues[i], replNulls[i]
		default:
			return nil, pkgerrors.Wrapf(ErrBadReplaceAction, "attribute %d has action %d", i+1, actions[i])
		}
	}

	nt, err := NewHeapTuple(bp, td, values, nulls)
	if err != nil {
		return nil, err
	}
	copy(nt[heapOidOff:heapNattsOff], t[heapOidOff:heapNattsOff])
	return nt, nil
}

// Len returns the total byte length of the tuple.
func (t HeapTuple) Len() ByteSize {
	return ByteSize(binary.LittleEndian.Uint32(t[heapLenOff:]))
}

// NumAttrs returns the number of attributes physically stored.
func (t HeapTuple) NumAttrs() uint16 {
	return binary.LittleEndian.Uint16(t[heapNattsOff:])
}

// Hoff returns the byte offset where attribute data begins.
func (t HeapTuple) Hoff() ByteSize {
	return ByteSize(t[heapHoffOff])
}

func (t HeapTuple) Infomask() uint16 {
	return binary.LittleEndian.Uint16(t[heapInfomaskOff:])
}

// Ctid returns the tuple's self-locator.
func (t HeapTuple) Ctid() ItemPointer {
	return readItemPointer(t[heapCtidOff:])
}

// SetCtid stamps the self-locator. Placement metadata is the one
// header field the owner sets after building.
func (t HeapTuple) SetCtid(ip ItemPointer) {
	writeItemPointer(t[heapCtidOff:], ip)
}

func (t HeapTuple) Oid() uint32 {
	return binary.LittleEndian.Uint32(t[heapOidOff:])
}

func (t HeapTuple) SetOid(oid uint32) {
	binary.LittleEndian.PutUint32(t[heapOidOff:], oid)
}

func (t HeapTuple) Xmin() uint32 {
	return binary.LittleEndian.Uint32(t[heapXminOff:])
}

func (t HeapTuple) Cmin() uint32 {
	return binary.LittleEndian.Uint32(t[heapCminOff:])
}

func (t HeapTuple) Xmax() uint32 {
	return binary.LittleEndian.Uint32(t[heapXmaxOff:])
}

func (t HeapTuple) Cmax() uint32 {
	return binary.LittleEndian.Uint32(t[heapCmaxOff:])
}

// getZeroed allocates |sz| bytes from |bp| and clears them: pooled
// buffers come back dirty, and padding bytes must read as zero so
// that equal inputs produce byte-identical tuples.
func getZeroed(bp pool.BuffPool, sz ByteSize) []byte {
	b := bp.Get(uint64(sz))
	for i := range b {
		b[i] = 0
	}
	return b
}
