// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"
)

const recordCacheSize = 4096

type recordCache struct {
	cache *lru.Cache
}

func newRecordCache() *recordCache {
	cache, err := lru.New(recordCacheSize)
	if err != nil {
		return nil
	}
	return &recordCache{cache: cache}
}

// Get returns the encoded value. Callers decode it, so the cached slice is never handed out for mutation.
func (rc *recordCache) Get(k []byte) ([]byte, bool) {
	if rc == nil {
		return nil, false
	}
	if v, ok := rc.cache.Get(string(k)); ok {
		return v.([]byte), true
	}
	return nil, false
}

func (rc *recordCache) Add(k []byte, v []byte) {
	if rc == nil {
		return
	}
	rc.cache.Add(string(k), v)
}
