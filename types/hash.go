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
	"encoding/binary"

	"github.com/spaolacci/murmur3"

	"github.com/dolthub/heaptuple/tup"
)

// KeyHash hashes an attribute value for the hash index layer. The
// hash covers the value's encoded bytes, so equal values of a type
// always collide and the result is stable across processes.
func KeyHash(t Type, d tup.Datum) uint64 {
	var b []byte
	if t.ByVal {
		var word [8]byte
		binary.LittleEndian.PutUint64(word[:], d.Word())
		b = word[:t.Len]
	} else {
		b = d.Ref()
	}
	h, _ := murmur3.Sum128(b)
	return h
}
