package resource

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/edgeorch/rater/config"
	"github.com/edgeorch/rater/util/fsutil"
)

// resourceBucket maps: resource name -> Info JSON
var resourceBucket = []byte("resource")

// BoltStore is a Store backed by a BoltDB file.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database at conf.Path.
func NewBoltStore(conf config.BoltDB) (*BoltStore, error) {
	err := fsutil.EnsurePath(conf.Path)
	if err != nil {
		return nil, err
	}
	db, err := bolt.Open(conf.Path, 0600, &bolt.Options{
		Timeout: time.Second * 5,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %s", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(resourceBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %s", err)
	}
	return &BoltStore{db: db}, nil
}

// Get returns the latest value of a resource.
func (b *BoltStore) Get(name string) (Info, error) {
	var info Info
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(resourceBucket).Get([]byte(name))
		if raw == nil {
			return ErrNotFound
		}
		return json.Unmarshal(raw, &info)
	})
	return info, err
}

// Set records the value of a resource.
func (b *BoltStore) Set(info Info) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshaling resource: %s", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(resourceBucket).Put([]byte(info.Name), raw)
	})
}

// Close closes the database.
func (b *BoltStore) Close() error {
	return b.db.Close()
}
