// Package cache keeps exported MIDI keyed by the input audio and the
// settings it was transcribed with.
package cache

import (
	"encoding/binary"
	"fmt"

	xxhash "github.com/OneOfOne/xxhash"
	"github.com/dgraph-io/badger/v3"
	"github.com/jsphweid/wav2midi/config"
	"github.com/jsphweid/wav2midi/model"
	"github.com/pkg/errors"
)

const prefix = "midi/"

// voices, notes, frames
const headerSize = 3 * 4

// Entry is a cached transcription: the exported file and its counts.
type Entry struct {
	Summary model.Summary
	Midi    []byte
}

func (e Entry) encode() []byte {
	buf := make([]byte, headerSize+len(e.Midi))
	binary.BigEndian.PutUint32(buf[0:], uint32(e.Summary.Voices))
	binary.BigEndian.PutUint32(buf[4:], uint32(e.Summary.Notes))
	binary.BigEndian.PutUint32(buf[8:], uint32(e.Summary.Frames))
	copy(buf[headerSize:], e.Midi)
	return buf
}

func decode(buf []byte) (Entry, error) {
	if len(buf) < headerSize {
		return Entry{}, errors.Errorf("cache entry too short: %d bytes", len(buf))
	}
	return Entry{
		Summary: model.Summary{
			Voices: int(binary.BigEndian.Uint32(buf[0:])),
			Notes:  int(binary.BigEndian.Uint32(buf[4:])),
			Frames: int(binary.BigEndian.Uint32(buf[8:])),
		},
		Midi: buf[headerSize:],
	}, nil
}

type Cache struct {
	db *badger.DB
}

func Open(dir string) (*Cache, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrapf(err, "opening cache at %s", dir)
	}
	return &Cache{db: db}, nil
}

func OpenInMemory() (*Cache, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrap(err, "opening in-memory cache")
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Key hashes the audio together with every setting that changes the output.
func Key(wav []byte, cfg config.Config) []byte {
	h := xxhash.New64()
	h.Write(wav)
	fmt.Fprintf(h, "|%d|%g|%g|%g|%d|%d", cfg.Peaks, cfg.KeyDiff, cfg.Unit, cfg.Tempo, cfg.MinBin, cfg.MaxBin)

	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], h.Sum64())
	return key
}

func (c *Cache) Get(key []byte) (Entry, bool, error) {
	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.Wrap(err, "cache get")
	}
	e, err := decode(raw)
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (c *Cache) Put(key []byte, e Entry) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, e.encode())
	})
	return errors.Wrap(err, "cache put")
}
