// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb_test

import (
	"path/filepath"
	"testing"

	"github.com/meterio/meter-auction/lvldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	batch.Put([]byte("a"), []byte("1"))
	batch.Put([]byte("b"), []byte("2"))
	assert.Equal(t, 2, batch.Len())

	_, err = db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, batch.Write())
	v, err := db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)

	require.NoError(t, db.Delete([]byte("b")))
	has, err := db.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestIteratorAndReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "main.db")
	db, err := lvldb.New(dir, lvldb.Options{})
	require.NoError(t, err)

	require.NoError(t, db.Put([]byte("x1"), []byte("a")))
	require.NoError(t, db.Put([]byte("x2"), []byte("b")))
	require.NoError(t, db.Put([]byte("y1"), []byte("c")))

	it := db.NewIterator([]byte("x"))
	n := 0
	for it.Next() {
		n++
	}
	it.Release()
	require.NoError(t, it.Error())
	assert.Equal(t, 2, n)
	require.NoError(t, db.Close())

	db, err = lvldb.New(dir, lvldb.Options{})
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get([]byte("y1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), v)
}
