package resource

import (
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/edgeorch/rater/config"
	"github.com/edgeorch/rater/util/fsutil"
)

var resourceKeyPrefix = []byte("resource/")

func resourceKey(name string) []byte {
	key := make([]byte, 0, len(resourceKeyPrefix)+len(name))
	key = append(key, resourceKeyPrefix...)
	key = append(key, name...)
	return key
}

// BadgerStore is a Store backed by the Badger embedded database.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) the database in the conf.Path directory.
func NewBadgerStore(conf config.Badger) (*BadgerStore, error) {
	err := fsutil.EnsureDir(conf.Path)
	if err != nil {
		return nil, fmt.Errorf("creating database directory: %s", err)
	}
	opts := badger.DefaultOptions(conf.Path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening database: %s", err)
	}
	return &BadgerStore{db: db}, nil
}

// Get returns the latest value of a resource.
func (b *BadgerStore) Get(name string) (Info, error) {
	var info Info
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resourceKey(name))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &info)
		})
	})
	return info, err
}

// Set records the value of a resource.
func (b *BadgerStore) Set(info Info) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshaling resource: %s", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(resourceKey(info.Name), raw)
	})
}

// Close closes the database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}
