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

// nullMask is a bit-array encoding a NULL bitmap.
// NULLs are encoded as 0, non-NULLs as 1, LSB-first within each byte.
// A tuple whose has-null flag is clear stores no mask at all and
// reads as all-ones; callers must check that flag before indexing.
type nullMask []byte

// BitmapLen returns the byte size of a mask with |count| members.
func BitmapLen(count int) ByteSize {
	return ByteSize((count + 7) / 8)
}

// set flips bit |i| to 1.
func (nm nullMask) set(i int) {
	nm[i/8] |= uint8(1) << (i % 8)
}

// present returns true if the |i|th member is non-null.
func (nm nullMask) present(i int) bool {
	query := uint8(1) << (i % 8)
	return query&nm[i/8] == query
}

// anyAbsentBefore returns true if any member strictly before |i|
// is null.
func (nm nullMask) anyAbsentBefore(i int) bool {
	byt, bit := i/8, i%8
	for j := 0; j < byt; j++ {
		if ^nm[j] != 0 {
			return true
		}
	}
	if bit == 0 {
		return false
	}
	mask := uint8(1)<<bit - 1
	return ^nm[byt]&mask != 0
}
