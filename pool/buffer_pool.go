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

package pool

import "sync"

const (
	smallSize  = 64
	mediumSize = 512
	largeSize  = 4096
)

// BuffPool is a pool of tiered byte buffers. Buffers come back
// dirty; callers that need zeroed memory clear them.
type BuffPool struct {
	small, medium, large *sync.Pool
}

func NewBuffPool() BuffPool {
	return BuffPool{
		small: &sync.Pool{
			New: func() interface{} {
				return make([]byte, smallSize)
			},
		},
		medium: &sync.Pool{
			New: func() interface{} {
				return make([]byte, mediumSize)
			},
		},
		large: &sync.Pool{
			New: func() interface{} {
				return make([]byte, largeSize)
			},
		},
	}
}

// Get returns a buffer of exactly |sz| bytes.
func (p BuffPool) Get(sz uint64) []byte {
	switch {
	case sz <= smallSize:
		return p.small.Get().([]byte)[:sz]
	case sz <= mediumSize:
		return p.medium.Get().([]byte)[:sz]
	case sz <= largeSize:
		return p.large.Get().([]byte)[:sz]
	default:
		return make([]byte, sz)
	}
}

// Put returns |buf| to the pool it was drawn from. Buffers not
// allocated by Get, or oversized ones, are dropped.
func (p BuffPool) Put(buf []byte) {
	switch cap(buf) {
	case smallSize:
		p.small.Put(buf[:smallSize]) //nolint:staticcheck
	case mediumSize:
		p.medium.Put(buf[:mediumSize]) //nolint:staticcheck
	case largeSize:
		p.large.Put(buf[:largeSize]) //nolint:staticcheck
	}
}
