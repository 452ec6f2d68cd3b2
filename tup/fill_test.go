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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/heaptuple/pool"
)

var testPool = pool.NewBuffPool()

func mustDesc(t *testing.T, attrs ...AttrDesc) *TupleDesc {
	td, err := NewTupleDesc(attrs...)
	require.NoError(t, err)
	return td
}

func int4Datum(v int32) Datum {
	return InlineDatum(uint64(uint32(v)))
}

func textDatum(s string) Datum {
	return RefDatum(NewVarlena([]byte(s)))
}

var (
	int4Attr = AttrDesc{Name: "i4", Len: 4, Align: AlignInt, ByVal: true}
	boolAttr = AttrDesc{Name: "b", Len: 1, Align: AlignByte, ByVal: true}
	textAttr = AttrDesc{Name: "t", Len: VarLen, Align: AlignInt}
)

func TestDataSizeAgreesWithDataFill(t *testing.T) {
	cases := []struct {
		name   string
		attrs  []AttrDesc
		values []Datum
		nulls  []bool
	}{
		{
			name:   "all fixed",
			attrs:  []AttrDesc{boolAttr, int4Attr, {Name: "i8", Len: 8, Align: AlignDouble, ByVal: true}},
			values: []Datum{InlineDatum(1), int4Datum(-9), InlineDatum(1 << 40)},
			nulls:  []bool{false, false, false},
		},
		{
			name:   "all null",
			attrs:  []AttrDesc{int4Attr, textAttr},
			values: []Datum{{}, {}},
			nulls:  []bool{true, true},
		},
		{
			name:   "varlena before null",
			attrs:  []AttrDesc{textAttr, int4Attr, int4Attr},
			values: []Datum{textDatum("abcdef"), {}, int4Datum(5)},
			nulls:  []bool{false, true, false},
		},
		{
			name:   "varlena after null",
			attrs:  []AttrDesc{int4Attr, textAttr, textAttr},
			values: []Datum{{}, textDatum("x"), textDatum("yz")},
			nulls:  []bool{true, false, false},
		},
		{
			name:   "fixed by-ref",
			attrs:  []AttrDesc{boolAttr, {Name: "u", Len: 16, Align: AlignByte}},
			values: []Datum{InlineDatum(0), RefDatum(make([]byte, 16))},
			nulls:  []bool{false, false},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			td := mustDesc(t, c.attrs...)
			sz := DataSize(td, c.values, c.nulls)

			// fill into an oversized buffer and find the last
			// non-zero byte to bound what was actually written
			buf := make([]byte, sz+64)
			DataFill(buf, td, c.values, c.nulls, nil)
			for i := int(sz); i < len(buf); i++ {
				assert.Zero(t, buf[i], "DataFill wrote past DataSize at byte %d", i)
			}
		})
	}
}

func TestDataFillExample(t *testing.T) {
	// schema (int4 id, varchar name), values (7, "ab")
	td := mustDesc(t, int4Attr, textAttr)
	values := []Datum{int4Datum(7), textDatum("ab")}
	nulls := []bool{false, false}

	sz := DataSize(td, values, nulls)
	require.Equal(t, ByteSize(10), sz)

	buf := make([]byte, sz)
	flags := DataFill(buf, td, values, nulls, nil)
	assert.Equal(t, HasVarlena, flags)
	assert.Equal(t, []byte{
		0x07, 0x00, 0x00, 0x00, // id = 7
		0x06, 0x00, 0x00, 0x00, // varlena header, 4+2
		'a', 'b',
	}, buf)
}

func TestDataFillNullBitmap(t *testing.T) {
	td := mustDesc(t, int4Attr, textAttr)
	values := []Datum{int4Datum(7), {}}
	nulls := []bool{false, true}

	sz := DataSize(td, values, nulls)
	require.Equal(t, ByteSize(4), sz)

	buf := make([]byte, sz)
	bits := make(nullMask, BitmapLen(td.Count()))
	flags := DataFill(buf, td, values, nulls, bits)

	assert.Equal(t, HasNull, flags)
	assert.True(t, bits.present(0))
	assert.False(t, bits.present(1))
	assert.Equal(t, []byte{0x07, 0x00, 0x00, 0x00}, buf)
}

func TestVarlenaAlignmentClasses(t *testing.T) {
	// a varlena following a 1-byte attribute is padded to its
	// declared alignment class
	cases := []struct {
		align Alignment
		start ByteSize
	}{
		{AlignByte, 1},
		{AlignShort, 2},
		{AlignInt, 4},
		{AlignDouble, 8},
	}

	for _, c := range cases {
		td := mustDesc(t,
			boolAttr,
			AttrDesc{Name: "v", Len: VarLen, Align: c.align},
		)
		values := []Datum{InlineDatum(1), textDatum("a")}
		nulls := []bool{false, false}

		sz := DataSize(td, values, nulls)
		require.Equal(t, c.start+5, sz, "alignment %d", c.align)

		buf := make([]byte, sz)
		DataFill(buf, td, values, nulls, nil)
		assert.Equal(t, ByteSize(5), VarSize(buf[c.start:]))
		assert.Equal(t, []byte("a"), VarData(buf[c.start:]))
	}
}

func TestDataSizeRandomizedAgreement(t *testing.T) {
	for n := 0; n < 100; n++ {
		td, values, nulls := randomSchemaAndValues(t)
		sz := DataSize(td, values, nulls)
		buf := make([]byte, sz)
		DataFill(buf, td, values, nulls, make(nullMask, BitmapLen(td.Count())))
	}
}

var attrPalette = []AttrDesc{
	{Len: 1, Align: AlignByte, ByVal: true},
	{Len: 2, Align: AlignShort, ByVal: true},
	{Len: 4, Align: AlignInt, ByVal: true},
	{Len: 8, Align: AlignDouble, ByVal: true},
	{Len: 16, Align: AlignByte},
	{Len: VarLen, Align: AlignInt},
	{Len: VarLen, Align: AlignDouble},
}

func randomSchemaAndValues(t *testing.T) (*TupleDesc, []Datum, []bool) {
	n := int(rand.Uint32()%12) + 1
	attrs := make([]AttrDesc, n)
	for i := range attrs {
		attrs[i] = attrPalette[rand.Intn(len(attrPalette))]
	}
	td := mustDesc(t, attrs...)

	values := make([]Datum, n)
	nulls := make([]bool, n)
	for i, ad := range attrs {
		if rand.Uint32()%4 == 0 {
			nulls[i] = true
			continue
		}
		switch {
		case ad.ByVal:
			mask := uint64(1)<<(8*uint(ad.Len)) - 1
			if ad.Len == 8 {
				mask = ^uint64(0)
			}
			values[i] = InlineDatum(rand.Uint64() & mask)
		case ad.Len > 0:
			b := make([]byte, ad.Len)
			rand.Read(b)
			values[i] = RefDatum(b)
		default:
			p := make([]byte, rand.Uint32()%20)
			rand.Read(p)
			values[i] = RefDatum(NewVarlena(p))
		}
	}
	return td, values, nulls
}
