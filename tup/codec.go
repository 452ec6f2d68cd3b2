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
)

type ByteSize uint32

// Alignment is the byte boundary an attribute's encoding must
// start on, relative to the start of the tuple data region.
type Alignment ByteSize

const (
	AlignByte   Alignment = 1
	AlignShort  Alignment = 2
	AlignInt    Alignment = 4
	AlignDouble Alignment = 8
)

// alignUp rounds |off| up to the next multiple of |a|.
func alignUp(off ByteSize, a Alignment) ByteSize {
	return (off + ByteSize(a) - 1) &^ (ByteSize(a) - 1)
}

// Datum is a value handle for a single attribute: an inline machine
// word for by-value attributes, or a reference to independently
// allocated bytes for by-reference attributes. The attribute's
// ByVal flag decides which representation is live.
type Datum struct {
	word uint64
	ref  []byte
}

func InlineDatum(word uint64) Datum {
	return Datum{word: word}
}

func RefDatum(b []byte) Datum {
	return Datum{ref: b}
}

// Word returns the inline scalar of a by-value Datum.
func (d Datum) Word() uint64 {
	return d.word
}

// Ref returns the referenced bytes of a by-reference Datum,
// nil for inline Datums.
func (d Datum) Ref() []byte {
	return d.ref
}

func (d Datum) IsRef() bool {
	return d.ref != nil
}

// readWord decodes the low-order |len(val)| bytes of a Datum word.
func readWord(val []byte) uint64 {
	switch len(val) {
	case 1:
		return uint64(val[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(val))
	case 4:
		return uint64(binary.LittleEndian.Uint32(val))
	case 8:
		return binary.LittleEndian.Uint64(val)
	default:
		panic("unsupported by-value width")
	}
}

// writeWord encodes the low-order |len(buf)| bytes of |word|.
func writeWord(buf []byte, word uint64) {
	switch len(buf) {
	case 1:
		buf[0] = uint8(word)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(word))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(word))
	case 8:
		binary.LittleEndian.PutUint64(buf, word)
	default:
		panic("unsupported by-value width")
	}
}

// VarHdrSize is the size of the length header that begins every
// variable-length encoding. The stored length includes the header.
const VarHdrSize ByteSize = 4

// VarSize reads the total encoded size of the varlena starting at |b|.
func VarSize(b []byte) ByteSize {
	return ByteSize(binary.LittleEndian.Uint32(b))
}

// PutVarSize writes the varlena length header at the start of |b|.
func PutVarSize(b []byte, sz ByteSize) {
	binary.LittleEndian.PutUint32(b, uint32(sz))
}

// NewVarlena allocates a varlena encoding of |payload|.
func NewVarlena(payload []byte) []byte {
	b := make([]byte, VarHdrSize+ByteSize(len(payload)))
	PutVarSize(b, ByteSize(len(b)))
	copy(b[VarHdrSize:], payload)
	return b
}

// VarData returns the payload bytes of the varlena starting at |b|.
func VarData(b []byte) []byte {
	return b[VarHdrSize:VarSize(b)]
}

// ItemPointer locates a tuple on disk as a block number and a
// line-pointer offset within the block.
type ItemPointer struct {
	Block  uint32
	OffNum uint16
}

const itemPointerSize = 6

func readItemPointer(b []byte) ItemPointer {
	return ItemPointer{
		Block:  binary.LittleEndian.Uint32(b),
		OffNum: binary.LittleEndian.Uint16(b[4:]),
	}
}

func writeItemPointer(b []byte, ip ItemPointer) {
	binary.LittleEndian.PutUint32(b, ip.Block)
	binary.LittleEndian.PutUint16(b[4:], ip.OffNum)
}

func expectSize(buf []byte, sz ByteSize) {
	if ByteSize(len(buf)) != sz {
		panic("byte slice is not of expected size")
	}
}

func expectTrue(b bool) {
	if !b {
		panic("expected true")
	}
}
