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

// Package dconfig names the environment variables that toggle
// runtime behavior.
package dconfig

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	// EnvDisableOffsetCache disables attribute offset caching when
	// set to any non-empty value. The cache is a pure optimization;
	// this toggle exists to rule it out when debugging decode issues.
	EnvDisableOffsetCache = "HEAPTUPLE_DISABLE_OFFSET_CACHE"

	// EnvDescCacheSize overrides the descriptor cache capacity.
	EnvDescCacheSize = "HEAPTUPLE_DESC_CACHE_SIZE"
)

// LookupInt reads an integer environment variable, falling back to
// |dflt| when unset or unparseable.
func LookupInt(name string, dflt int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return dflt
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("ignoring %s=%q: %v", name, v, err)
		return dflt
	}
	return n
}
