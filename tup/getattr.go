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

// tupleLayout is the header-shape strategy shared by the heap and
// index walkers. The two tuple families differ only in where the
// data region and null bitmap live; the walking algorithm over the
// data region is identical.
type tupleLayout struct {
	data   []byte   // attribute data region, tuple[hoff:]
	bits   nullMask // nil iff the tuple's has-null flag is clear
	hasVar bool     // the tuple's has-varlena flag
}

// getAttr returns the decoded value of 1-based attribute |attnum|
// and an is-null flag.
//
// Three cases:
//
//  1. No nulls and no variable-length attributes before |attnum|:
//     trust the cached offset, or extend the cached-offset prefix.
//  2. The requested attribute is null: return immediately.
//  3. A null or varlena precedes |attnum|: walk the tuple carefully,
//     populating cached offsets only up to the first null or varlena
//     encountered, because offsets past that point depend on this
//     instance's data and are not schema-invariant.
func getAttr(l tupleLayout, attnum int, td *TupleDesc) (Datum, bool) {
	td.expectAttnum(attnum)
	idx := attnum - 1

	slow := false
	if l.bits != nil {
		if !l.bits.present(idx) {
			return Datum{}, true
		}
		slow = l.bits.anyAbsentBefore(idx)
	}

	if !slow {
		if off := td.cachedOff(idx); off > 0 {
			offsetCacheHits.Inc()
			return td.fetch(idx, l.data[off:]), false
		}
		if idx == 0 {
			return td.fetch(0, l.data), false
		}
		if l.hasVar {
			for j := 0; j < idx && !slow; j++ {
				if td.classes[j] == varlena {
					slow = true
				}
			}
		}
	}

	if !slow {
		return extendCachedPrefix(l, idx, td), false
	}
	return walkSlow(l, idx, td), false
}

// extendCachedPrefix handles the no-preceding-nulls/varlenas case:
// every offset up to |idx| is schema-invariant, so compute and cache
// the ones not yet populated. The requested attribute itself may be
// varlena; its post-alignment start is still invariant and cached.
func extendCachedPrefix(l tupleLayout, idx int, td *TupleDesc) Datum {
	offsetCacheMisses.Inc()
	td.setCachedOff(0, 0)

	j := 1
	for j < idx && td.cachedOff(j) > 0 {
		j++
	}

	// attribute j-1 is fixed-length: only the requested attribute
	// can be varlena on this path.
	off := ByteSize(td.Attrs[j-1].Len)
	if j > 1 {
		off += ByteSize(td.cachedOff(j - 1))
	}

	for ; ; j++ {
		off = td.alignedOff(j, off)
		td.setCachedOff(j, off)
		if j == idx {
			break
		}
		off += ByteSize(td.Attrs[j].Len)
	}
	return td.fetch(idx, l.data[off:])
}

// walkSlow walks attributes 0..idx-1 tracking a running offset.
// Null attributes contribute no bytes and no alignment padding.
// Each non-null attribute's own aligned start is computed before
// advancing past it; that start, not the pre-alignment cursor, is
// what gets cached.
func walkSlow(l tupleLayout, idx int, td *TupleDesc) Datum {
	slowWalks.Inc()

	usecache := true
	var off ByteSize
	for i := 0; i < idx; i++ {
		if l.bits != nil && !l.bits.present(i) {
			usecache = false
			continue
		}

		off = td.alignedOff(i, off)
		if cached := td.cachedOff(i); usecache && cached > 0 {
			off = ByteSize(cached)
			if td.classes[i] == varlena {
				usecache = false
			}
		} else if usecache {
			td.setCachedOff(i, off)
		}

		if td.classes[i] == varlena {
			usecache = false
			off += VarSize(l.data[off:])
		} else {
			off += ByteSize(td.Attrs[i].Len)
		}
	}

	off = td.alignedOff(idx, off)
	return td.fetch(idx, l.data[off:])
}

// fetch decodes attribute |i| starting at |b|. By-value attributes
// are read into a Datum word; by-reference attributes return a
// sub-slice of the tuple, zero-copy.
func (td *TupleDesc) fetch(i int, b []byte) Datum {
	if td.classes[i] == varlena {
		return RefDatum(b[:VarSize(b)])
	}
	n := ByteSize(td.Attrs[i].Len)
	if td.Attrs[i].ByVal {
		return InlineDatum(readWord(b[:n]))
	}
	return RefDatum(b[:n])
}
