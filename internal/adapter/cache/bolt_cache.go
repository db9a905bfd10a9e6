package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"capembed/internal/adapter/vectorcsv"
)

// CurrentSchemaVersion is the cache storage format version. Increment on
// breaking changes; a mismatch clears all cached vectors on open.
const CurrentSchemaVersion = 1

var (
	bucketVectors    = []byte("vectors")
	bucketMeta       = []byte("meta")
	keySchemaVersion = []byte("schema_version")
)

// BoltCache memoizes provider calls keyed by (model, text). It never drives
// the pipeline: a run still loads, selects, and writes every record, so a
// half-written cache only saves provider round trips, not pipeline work.
type BoltCache struct {
	db   *bbolt.DB
	path string
}

func NewBoltCache(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketVectors, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	c := &BoltCache{db: db, path: path}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *BoltCache) migrate() error {
	version, err := c.schemaVersion()
	if err != nil {
		return err
	}

	if version != 0 && version != CurrentSchemaVersion {
		if err := c.Clear(); err != nil {
			return fmt.Errorf("failed to clear outdated cache: %w", err)
		}
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(CurrentSchemaVersion)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, data)
	})
}

func (c *BoltCache) schemaVersion() (int, error) {
	var version int
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keySchemaVersion)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &version)
	})
	return version, err
}

func cacheKey(model, text string) []byte {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return []byte(hex.EncodeToString(sum[:16]))
}

func (c *BoltCache) Get(model, text string) ([]float32, bool, error) {
	var encoded string
	var found bool
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketVectors).Get(cacheKey(model, text))
		if data != nil {
			encoded = string(data)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	vector, err := vectorcsv.DecodeVector(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode cached vector: %w", err)
	}
	return vector, true, nil
}

func (c *BoltCache) Put(model, text string, vector []float32) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVectors).Put(cacheKey(model, text), []byte(vectorcsv.EncodeVector(vector)))
	})
}

// Entries reports the number of cached vectors.
func (c *BoltCache) Entries() (int, error) {
	var count int
	err := c.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(bucketVectors).Stats().KeyN
		return nil
	})
	return count, err
}

// Clear removes all cached vectors but keeps schema metadata.
func (c *BoltCache) Clear() error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		cur := b.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *BoltCache) Path() string {
	return c.path
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}
