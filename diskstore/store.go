// Package diskstore persists solver strategy tables in a LevelDB
// database, one record per infoset. It trades checkpoint speed for
// incremental, key-addressable access when tables outgrow a single flat
// file.
package diskstore

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	ofc "github.com/timpalpant/go-ofc"
)

// Store is a LevelDB-backed table of infoset records. Values use the same
// per-node binary layout as the flat checkpoint format.
type Store struct {
	path string
	db   *leveldb.DB
}

// Open creates or opens the database at path.
func Open(path string, opts *opt.Options) (*Store, error) {
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening leveldb at %v", path)
	}
	return &Store{path: path, db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return errors.Wrapf(s.db.Close(), "closing leveldb at %v", s.path)
}

// Put writes one infoset's accumulated vectors.
func (s *Store) Put(key string, regretSum, strategySum []float64) error {
	var buf bytes.Buffer
	if err := encodeVectors(&buf, regretSum, strategySum); err != nil {
		return errors.Wrapf(err, "encoding node %q", key)
	}
	return errors.Wrapf(s.db.Put([]byte(key), buf.Bytes(), nil), "writing node %q", key)
}

// Get reads one infoset's accumulated vectors. A missing key returns nil
// vectors and no error.
func (s *Store) Get(key string) (regretSum, strategySum []float64, err error) {
	value, err := s.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading node %q", key)
	}
	regretSum, strategySum, err = decodeVectors(bytes.NewReader(value))
	return regretSum, strategySum, errors.Wrapf(err, "decoding node %q", key)
}

// Each calls fn for every stored infoset until fn returns an error.
func (s *Store) Each(fn func(key string, regretSum, strategySum []float64) error) error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		regretSum, strategySum, err := decodeVectors(bytes.NewReader(iter.Value()))
		if err != nil {
			return errors.Wrapf(err, "decoding node %q", iter.Key())
		}
		if err := fn(string(iter.Key()), regretSum, strategySum); err != nil {
			return err
		}
	}
	return errors.Wrap(iter.Error(), "iterating leveldb")
}

// Save writes every node of the solver's table into the store.
func Save(store *Store, s *ofc.Solver) error {
	var err error
	s.EachNode(func(key string, regretSum, strategySum []float64) bool {
		err = store.Put(key, regretSum, strategySum)
		return err == nil
	})
	return err
}

// Load restores every stored node into the solver's table.
func Load(store *Store, s *ofc.Solver) error {
	return store.Each(func(key string, regretSum, strategySum []float64) error {
		return s.SetNode(key, regretSum, strategySum)
	})
}
