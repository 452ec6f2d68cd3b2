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

import "encoding/binary"

// System attributes are a fixed set of reserved non-positional
// attribute identifiers whose sizes and by-value-ness are constants,
// not schema-derived. Only the self-locator is by-reference.
const (
	SelfItemPointerAttrNumber  = -1
	ObjectIdAttrNumber         = -2
	MinTransactionIdAttrNumber = -3
	MinCommandIdAttrNumber     = -4
	MaxTransactionIdAttrNumber = -5
	MaxCommandIdAttrNumber     = -6
)

// SysAttrLen returns the byte length of a system attribute.
func SysAttrLen(attnum int) ByteSize {
	switch attnum {
	case SelfItemPointerAttrNumber:
		return itemPointerSize
	case ObjectIdAttrNumber,
		MinTransactionIdAttrNumber, MinCommandIdAttrNumber,
		MaxTransactionIdAttrNumber, MaxCommandIdAttrNumber:
		return 4
	default:
		panic("unknown system attribute number")
	}
}

// SysAttrByVal returns the by-value property of a system attribute.
func SysAttrByVal(attnum int) bool {
	switch attnum {
	case SelfItemPointerAttrNumber:
		return false
	case ObjectIdAttrNumber,
		MinTransactionIdAttrNumber, MinCommandIdAttrNumber,
		MaxTransactionIdAttrNumber, MaxCommandIdAttrNumber:
		return true
	default:
		panic("unknown system attribute number")
	}
}

// GetSysAttr returns the value of a system attribute from the
// tuple header. System attributes are never null.
func (t HeapTuple) GetSysAttr(attnum int) Datum {
	switch attnum {
	case SelfItemPointerAttrNumber:
		return RefDatum(t[heapCtidOff : heapCtidOff+itemPointerSize])
	case ObjectIdAttrNumber:
		return InlineDatum(uint64(binary.LittleEndian.Uint32(t[heapOidOff:])))
	case MinTransactionIdAttrNumber:
		return InlineDatum(uint64(binary.LittleEndian.Uint32(t[heapXminOff:])))
	case MinCommandIdAttrNumber:
		return InlineDatum(uint64(binary.LittleEndian.Uint32(t[heapCminOff:])))
	case MaxTransactionIdAttrNumber:
		return InlineDatum(uint64(binary.LittleEndian.Uint32(t[heapXmaxOff:])))
	case MaxCommandIdAttrNumber:
		return InlineDatum(uint64(binary.LittleEndian.Uint32(t[heapCmaxOff:])))
	default:
		panic("unknown system attribute number")
	}
}
