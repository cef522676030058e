package main

import (
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
)

// The builds bucket holds a nested bucket per chat, which maps sequence
// numbers to JSON encoded build records.
var buildsBucket = []byte("builds")

type history struct {
	db *bolt.DB
}

func openHistory(path string) (*history, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(buildsBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not ensure database buckets exist: %w", err)
	}
	return &history{db: db}, nil
}

func (h *history) Close() error {
	return h.db.Close()
}

// save assigns the record its ID and stores it.
func (h *history) save(r *buildRecord) error {
	return h.db.Update(func(tx *bolt.Tx) error {
		chat, err := tx.Bucket(buildsBucket).CreateBucketIfNotExists(id2key(r.ChatID))
		if err != nil {
			return err
		}
		seq, err := chat.NextSequence()
		if err != nil {
			return err
		}
		r.ID = seq
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		return chat.Put(seq2key(seq), b)
	})
}

// recent returns up to n records of the chat, newest first.
func (h *history) recent(chatID int64, n int) ([]*buildRecord, error) {
	var records []*buildRecord
	err := h.db.View(func(tx *bolt.Tx) error {
		chat := tx.Bucket(buildsBucket).Bucket(id2key(chatID))
		if chat == nil {
			return nil
		}
		c := chat.Cursor()
		for k, v := c.Last(); k != nil && len(records) < n; k, v = c.Prev() {
			var r buildRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("record %s of chat %d: %w", k, chatID, err)
			}
			records = append(records, &r)
		}
		return nil
	})
	return records, err
}

// forEach calls fn for every record, chat by chat, oldest first.
func (h *history) forEach(fn func(*buildRecord) error) error {
	return h.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(buildsBucket).ForEach(func(chatKey, _ []byte) error {
			chat := tx.Bucket(buildsBucket).Bucket(chatKey)
			if chat == nil {
				// Not a nested bucket.
				return nil
			}
			return chat.ForEach(func(_, v []byte) error {
				var r buildRecord
				if err := json.Unmarshal(v, &r); err != nil {
					return err
				}
				return fn(&r)
			})
		})
	})
}

func id2key(id int64) []byte {
	return []byte(fmt.Sprintf("%d", id))
}

// seq2key pads sequence numbers so that keys sort numerically.
func seq2key(seq uint64) []byte {
	return []byte(fmt.Sprintf("%020d", seq))
}
