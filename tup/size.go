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

// DataSize computes the packed byte length of the attribute data
// region for |values| and |nulls| under schema |td|, excluding any
// header or null bitmap. It predicts exactly what DataFill writes.
func DataSize(td *TupleDesc, values []Datum, nulls []bool) ByteSize {
	expectTrue(len(values) == td.Count() && len(nulls) == td.Count())

	var sz ByteSize
	for i := range td.Attrs {
		if nulls[i] {
			continue
		}
		sz = td.alignedOff(i, sz)
		if td.classes[i] == varlena {
			sz += VarSize(values[i].Ref())
		} else {
			sz += ByteSize(td.Attrs[i].Len)
		}
	}
	return sz
}
