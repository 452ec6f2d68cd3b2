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
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/heaptuple/dconfig"
	"github.com/dolthub/heaptuple/tup"
)

const defaultDescCacheSize = 256

// DescCache holds schema-lifetime tuple descriptors keyed by
// relation id. Cached offsets live inside the descriptor, so
// handing out the same *TupleDesc for a relation is what makes the
// offset cache effective across callers. Eviction drops the
// descriptor and its accumulated offsets; a fresh descriptor decodes
// identically, just colder.
type DescCache struct {
	cache *lru.Cache[uint32, *tup.TupleDesc]
}

func NewDescCache(size int) (*DescCache, error) {
	c, err := lru.NewWithEvict(size, func(relid uint32, _ *tup.TupleDesc) {
		logrus.Debugf("evicting descriptor for relation %d", relid)
	})
	if err != nil {
		return nil, err
	}
	return &DescCache{cache: c}, nil
}

// NewDescCacheFromEnv sizes the cache from the environment.
func NewDescCacheFromEnv() (*DescCache, error) {
	return NewDescCache(dconfig.LookupInt(dconfig.EnvDescCacheSize, defaultDescCacheSize))
}

func (dc *DescCache) Get(relid uint32) (*tup.TupleDesc, bool) {
	return dc.cache.Get(relid)
}

func (dc *DescCache) Put(relid uint32, td *tup.TupleDesc) {
	dc.cache.Add(relid, td)
}

func (dc *DescCache) Len() int {
	return dc.cache.Len()
}
