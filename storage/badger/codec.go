package badger

import (
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
)

// storedTime normalizes t to the microsecond UTC precision values are
// encoded with.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// readValue reads and decodes the value under key.
// Returns nil, nil when the key does not exist.
func readValue[T any](tx *badger.Txn, key []byte, decode func([]byte) (*T, error)) (*T, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var value *T
	err = item.Value(func(val []byte) error {
		var decodeErr error
		value, decodeErr = decode(val)
		return decodeErr
	})
	return value, err
}

// readIndexedID reads a record ID stored as an index value.
func readIndexedID(item *badger.Item) (core.ID, error) {
	var id core.ID
	err := item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	})
	return id, err
}

// scanPrefix calls fn for every key under prefix, in key order.
func scanPrefix(tx *badger.Txn, prefix []byte, fn func(item *badger.Item) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if err := fn(iter.Item()); err != nil {
			return err
		}
	}
	return nil
}

// scanPrefixReverse calls fn for every key under prefix, last key first.
func scanPrefixReverse(tx *badger.Txn, prefix []byte, fn func(item *badger.Item) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.Reverse = true
	iter := tx.NewIterator(opts)
	defer iter.Close()

	// Seek past the last possible key with this prefix
	seekKey := append(append([]byte{}, prefix...), 0xFF)
	for iter.Seek(seekKey); iter.Valid(); iter.Next() {
		if err := fn(iter.Item()); err != nil {
			return err
		}
	}
	return nil
}
