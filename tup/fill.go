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

// Whole-tuple flag bits accumulated by DataFill. HeapTuple stores
// them verbatim in its infomask; IndexTuple translates them into
// its own t_info bits.
const (
	HasNull    uint16 = 0x0001
	HasVarlena uint16 = 0x0002
)

// DataFill writes the packed attribute data for |values| and |nulls|
// at the start of |data|, which the caller has sliced at the tuple's
// header offset and sized with DataSize. When |bits| is non-nil it
// receives the null bitmap, one bit per attribute, set for non-null.
// Returns the accumulated HasNull/HasVarlena flags. Cached offsets
// are never touched here.
func DataFill(data []byte, td *TupleDesc, values []Datum, nulls []bool, bits nullMask) (flags uint16) {
	expectTrue(len(values) == td.Count() && len(nulls) == td.Count())

	var off ByteSize
	for i := range td.Attrs {
		if nulls[i] {
			flags |= HasNull
			continue
		}
		if bits != nil {
			bits.set(i)
		}

		off = td.alignedOff(i, off)
		switch td.classes[i] {
		case varlena:
			flags |= HasVarlena
			sz := VarSize(values[i].Ref())
			copy(data[off:off+sz], values[i].Ref())
			off += sz
		default:
			n := ByteSize(td.Attrs[i].Len)
			if td.Attrs[i].ByVal {
				writeWord(data[off:off+n], values[i].Word())
			} else {
				copy(data[off:off+n], values[i].Ref()[:n])
			}
			off += n
		}
	}
	return
}
