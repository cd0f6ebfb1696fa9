package store

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"go.etcd.io/bbolt"
)

const (
	metaBucket    = "meta"
	schemaKey     = "schema"
	schemaVersion = 1
)

// migrate creates the buckets the ledger needs and records the schema
// version.
func (c *Client) migrate(tx *bbolt.Tx) error {
	meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
	if err != nil {
		return err
	}

	_, err = tx.CreateBucketIfNotExists([]byte(invoiceBucket))
	if err != nil {
		return err
	}

	if v := meta.Get([]byte(schemaKey)); len(v) == 8 &&
		binary.BigEndian.Uint64(v) >= schemaVersion {
		return nil
	}

	version := make([]byte, 8)
	binary.BigEndian.PutUint64(version, schemaVersion)

	return meta.Put([]byte(schemaKey), version)
}

func (c *Client) ExpirePending(cutoff time.Time) (int, error) {
	var expired int

	err := c.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(invoiceBucket))

		updates := make(map[string][]byte)

		cur := bucket.Cursor()

		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			var inv Invoice

			err := json.Unmarshal(v, &inv)
			if err != nil {
				return err
			}

			if inv.Terminal() || !inv.CreatedAt.Before(cutoff) {
				continue
			}

			inv.Status = StatusCancelled
			inv.UpdatedAt = c.now()

			b, err := json.Marshal(&inv)
			if err != nil {
				return err
			}

			updates[string(k)] = b
		}

		for k, v := range updates {
			err := bucket.Put([]byte(k), v)
			if err != nil {
				return err
			}
		}

		expired = len(updates)

		return nil
	})

	return expired, err
}
