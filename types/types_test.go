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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/heaptuple/pool"
	"github.com/dolthub/heaptuple/tup"
)

func TestInOutRoundTrip(t *testing.T) {
	cases := []struct {
		typ string
		in  string
		out string
	}{
		{"bool", "true", "true"},
		{"bool", "f", "false"},
		{"int2", "-32768", "-32768"},
		{"int4", "2147483647", "2147483647"},
		{"int4", "-7", "-7"},
		{"int8", "-9223372036854775808", "-9223372036854775808"},
		{"float4", "1.5", "1.5"},
		{"float8", "-2.25e10", "-2.25e+10"},
		{"text", "hello world", "hello world"},
		{"varchar", "", ""},
		{"bytea", `\x0a0b0c`, `\x0a0b0c`},
		{"numeric", "123.4500", "123.45"},
		{"uuid", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"timestamp", "2021-04-01 12:30:45.5", "2021-04-01 12:30:45.5"},
	}

	for _, c := range cases {
		t.Run(c.typ+"/"+c.in, func(t *testing.T) {
			typ, err := Lookup(c.typ)
			require.NoError(t, err)

			d, err := typ.In(c.in)
			require.NoError(t, err)

			s, err := typ.Out(d)
			require.NoError(t, err)
			assert.Equal(t, c.out, s)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("frobnitz")
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestInRejectsMalformed(t *testing.T) {
	cases := [][2]string{
		{"int4", "twelve"},
		{"int2", "70000"},
		{"bool", "perhaps"},
		{"numeric", "1.2.3"},
		{"uuid", "not-a-uuid"},
		{"timestamp", "yesterday"},
		{"bytea", `\xzz`},
	}
	for _, c := range cases {
		typ, err := Lookup(c[0])
		require.NoError(t, err)
		_, err = typ.In(c[1])
		assert.Error(t, err, "%s %q", c[0], c[1])
	}
}

func TestOutDetectsCorruptVarlena(t *testing.T) {
	typ, err := Lookup("text")
	require.NoError(t, err)

	d, err := typ.In("hello")
	require.NoError(t, err)

	// truncate the referenced bytes so the self-declared length
	// disagrees with what is actually there
	_, err = typ.Out(tup.RefDatum(d.Ref()[:4]))
	assert.Error(t, err)
}

// values flow through the tuple codec unchanged: In, pack, unpack, Out.
func TestInOutThroughTuple(t *testing.T) {
	bp := pool.NewBuffPool()

	names := []string{"int4", "text", "bool", "numeric", "uuid", "timestamp"}
	inputs := []string{"42", "tuple codec", "true", "99.9", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "2021-04-01 12:30:45.5"}

	attrs := make([]tup.AttrDesc, len(names))
	values := make([]tup.Datum, len(names))
	nulls := make([]bool, len(names))
	for i, name := range names {
		typ, err := Lookup(name)
		require.NoError(t, err)
		attrs[i] = typ.Desc(name)

		values[i], err = typ.In(inputs[i])
		require.NoError(t, err)
	}

	td, err := tup.NewTupleDesc(attrs...)
	require.NoError(t, err)
	ht, err := tup.NewHeapTuple(bp, td, values, nulls)
	require.NoError(t, err)

	for i, name := range names {
		typ, err := Lookup(name)
		require.NoError(t, err)

		d, isnull := ht.GetAttr(i+1, td)
		require.False(t, isnull)

		s, err := typ.Out(d)
		require.NoError(t, err)
		assert.Equal(t, inputs[i], s, name)
	}
}

func TestKeyHash(t *testing.T) {
	int4, err := Lookup("int4")
	require.NoError(t, err)
	text, err := Lookup("text")
	require.NoError(t, err)

	a, _ := int4.In("7")
	b, _ := int4.In("7")
	c, _ := int4.In("8")
	assert.Equal(t, KeyHash(int4, a), KeyHash(int4, b))
	assert.NotEqual(t, KeyHash(int4, a), KeyHash(int4, c))

	s1, _ := text.In("abc")
	s2, _ := text.In("abc")
	s3, _ := text.In("abd")
	assert.Equal(t, KeyHash(text, s1), KeyHash(text, s2))
	assert.NotEqual(t, KeyHash(text, s1), KeyHash(text, s3))
}

func TestDescCache(t *testing.T) {
	dc, err := NewDescCache(2)
	require.NoError(t, err)

	mkDesc := func() *tup.TupleDesc {
		td, err := tup.NewTupleDesc(tup.AttrDesc{Name: "id", Len: 4, Align: tup.AlignInt, ByVal: true})
		require.NoError(t, err)
		return td
	}

	dc.Put(1, mkDesc())
	dc.Put(2, mkDesc())

	got, ok := dc.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, got.Count())

	// relation 2 is now least recently used and gets evicted
	dc.Put(3, mkDesc())
	assert.Equal(t, 2, dc.Len())
	_, ok = dc.Get(2)
	assert.False(t, ok)
}
