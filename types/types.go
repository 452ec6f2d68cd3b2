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

// Package types is the attribute-type catalog: per-type length,
// alignment, and by-value metadata, plus the text input/output
// conversion functions consumed by bulk load and export.
package types

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dolthub/heaptuple/tup"
)

var ErrUnknownType = pkgerrors.New("unknown type name")

// Type is one catalog entry. In converts external text to a Datum;
// Out converts a Datum back to text. Out validates encoded lengths
// and reports data-integrity errors for malformed payloads.
type Type struct {
	Name  string
	Len   int16
	Align tup.Alignment
	ByVal bool
	In    func(string) (tup.Datum, error)
	Out   func(tup.Datum) (string, error)
}

// Desc returns the attribute descriptor for a column of this type.
func (t Type) Desc(col string) tup.AttrDesc {
	return tup.AttrDesc{Name: col, Len: t.Len, Align: t.Align, ByVal: t.ByVal}
}

// Lookup finds a type by catalog name.
func Lookup(name string) (Type, error) {
	t, ok := catalog[strings.ToLower(name)]
	if !ok {
		return Type{}, pkgerrors.Wrap(ErrUnknownType, name)
	}
	return t, nil
}

const timestampLayout = "2006-01-02 15:04:05.999999"

var catalog = map[string]Type{
	"bool": {
		Name: "bool", Len: 1, Align: tup.AlignByte, ByVal: true,
		In: func(s string) (tup.Datum, error) {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return tup.Datum{}, err
			}
			var w uint64
			if v {
				w = 1
			}
			return tup.InlineDatum(w), nil
		},
		Out: func(d tup.Datum) (string, error) {
			return strconv.FormatBool(d.Word() != 0), nil
		},
	},
	"int2": {
		Name: "int2", Len: 2, Align: tup.AlignShort, ByVal: true,
		In: func(s string) (tup.Datum, error) {
			v, err := strconv.ParseInt(s, 10, 16)
			if err != nil {
				return tup.Datum{}, err
			}
			return tup.InlineDatum(uint64(uint16(v))), nil
		},
		Out: func(d tup.Datum) (string, error) {
			return strconv.FormatInt(int64(int16(d.Word())), 10), nil
		},
	},
	"int4": {
		Name: "int4", Len: 4, Align: tup.AlignInt, ByVal: true,
		In: func(s string) (tup.Datum, error) {
			v, err := strconv.ParseInt(s, 10, 32)
			if err != nil {
				return tup.Datum{}, err
			}
			return tup.InlineDatum(uint64(uint32(v))), nil
		},
		Out: func(d tup.Datum) (string, error) {
			return strconv.FormatInt(int64(int32(d.Word())), 10), nil
		},
	},
	"int8": {
		Name: "int8", Len: 8, Align: tup.AlignDouble, ByVal: true,
		In: func(s string) (tup.Datum, error) {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return tup.Datum{}, err
			}
			return tup.InlineDatum(uint64(v)), nil
		},
		Out: func(d tup.Datum) (string, error) {
			return strconv.FormatInt(int64(d.Word()), 10), nil
		},
	},
	"float4": {
		Name: "float4", Len: 4, Align: tup.AlignInt, ByVal: true,
		In: func(s string) (tup.Datum, error) {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return tup.Datum{}, err
			}
			return tup.InlineDatum(uint64(math.Float32bits(float32(v)))), nil
		},
		Out: func(d tup.Datum) (string, error) {
			v := math.Float32frombits(uint32(d.Word()))
			return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
		},
	},
	"float8": {
		Name: "float8", Len: 8, Align: tup.AlignDouble, ByVal: true,
		In: func(s string) (tup.Datum, error) {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return tup.Datum{}, err
			}
			return tup.InlineDatum(math.Float64bits(v)), nil
		},
		Out: func(d tup.Datum) (string, error) {
			return strconv.FormatFloat(math.Float64frombits(d.Word()), 'g', -1, 64), nil
		},
	},
	"text": {
		Name: "text", Len: tup.VarLen, Align: tup.AlignInt,
		In: func(s string) (tup.Datum, error) {
			return tup.RefDatum(tup.NewVarlena([]byte(s))), nil
		},
		Out: func(d tup.Datum) (string, error) {
			p, err := varPayload(d)
			return string(p), err
		},
	},
	"varchar": {
		Name: "varchar", Len: tup.VarLen, Align: tup.AlignInt,
		In: func(s string) (tup.Datum, error) {
			return tup.RefDatum(tup.NewVarlena([]byte(s))), nil
		},
		Out: func(d tup.Datum) (string, error) {
			p, err := varPayload(d)
			return string(p), err
		},
	},
	"bytea": {
		Name: "bytea", Len: tup.VarLen, Align: tup.AlignInt,
		In: func(s string) (tup.Datum, error) {
			b, err := hex.DecodeString(strings.TrimPrefix(s, `\x`))
			if err != nil {
				return tup.Datum{}, err
			}
			return tup.RefDatum(tup.NewVarlena(b)), nil
		},
		Out: func(d tup.Datum) (string, error) {
			p, err := varPayload(d)
			if err != nil {
				return "", err
			}
			return `\x` + hex.EncodeToString(p), nil
		},
	},
	"numeric": {
		Name: "numeric", Len: tup.VarLen, Align: tup.AlignInt,
		In: func(s string) (tup.Datum, error) {
			v, err := decimal.NewFromString(s)
			if err != nil {
				return tup.Datum{}, err
			}
			return tup.RefDatum(tup.NewVarlena([]byte(v.String()))), nil
		},
		Out: func(d tup.Datum) (string, error) {
			p, err := varPayload(d)
			if err != nil {
				return "", err
			}
			v, err := decimal.NewFromString(string(p))
			if err != nil {
				return "", pkgerrors.Wrap(err, "malformed numeric payload")
			}
			return v.String(), nil
		},
	},
	"uuid": {
		Name: "uuid", Len: 16, Align: tup.AlignByte,
		In: func(s string) (tup.Datum, error) {
			u, err := uuid.Parse(s)
			if err != nil {
				return tup.Datum{}, err
			}
			return tup.RefDatum(u[:]), nil
		},
		Out: func(d tup.Datum) (string, error) {
			u, err := uuid.FromBytes(d.Ref())
			if err != nil {
				return "", pkgerrors.Wrap(err, "malformed uuid payload")
			}
			return u.String(), nil
		},
	},
	"timestamp": {
		Name: "timestamp", Len: 8, Align: tup.AlignDouble, ByVal: true,
		In: func(s string) (tup.Datum, error) {
			v, err := time.Parse(timestampLayout, s)
			if err != nil {
				return tup.Datum{}, err
			}
			return tup.InlineDatum(uint64(v.UnixMicro())), nil
		},
		Out: func(d tup.Datum) (string, error) {
			return time.UnixMicro(int64(d.Word())).UTC().Format(timestampLayout), nil
		},
	},
}

// varPayload extracts a varlena payload, checking that the
// self-declared length agrees with the bytes actually referenced.
func varPayload(d tup.Datum) ([]byte, error) {
	b := d.Ref()
	if len(b) < int(tup.VarHdrSize) || tup.VarSize(b) != tup.ByteSize(len(b)) {
		return nil, fmt.Errorf("varlena header declares %d bytes, have %d", tup.VarSize(b), len(b))
	}
	return tup.VarData(b), nil
}
