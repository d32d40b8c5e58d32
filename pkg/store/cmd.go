package store

import (
	"bytes"
	"encoding/binary"

	bolt "go.etcd.io/bbolt"
	. "src.iok.sh/pkg/store/storedefs"
)

func init() {
	initDB["initialize command history bucket"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	}
}

// NextCmdSeq returns the sequence number the next added entry will get.
func (s *dbStore) NextCmdSeq() (int, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		seq = tx.Bucket([]byte(bucketCmd)).Sequence() + 1
		return nil
	})
	return int(seq), err
}

// AddCmd appends an entry to the history and returns its sequence number.
func (s *dbStore) AddCmd(text string) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), []byte(text))
	})
	return int(seq), err
}

// DelCmd deletes the entry with the given sequence number. Deleting a
// missing entry is not an error.
func (s *dbStore) DelCmd(seq int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketCmd)).Delete(marshalSeq(uint64(seq)))
	})
}

// Cmd returns the text of the entry with the given sequence number.
func (s *dbStore) Cmd(seq int) (string, error) {
	var text string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketCmd)).Get(marshalSeq(uint64(seq)))
		if v == nil {
			return ErrNoMatchingCmd
		}
		text = string(v)
		return nil
	})
	return text, err
}

// CmdsWithSeq returns all entries with sequence numbers in [from, upto).
func (s *dbStore) CmdsWithSeq(from, upto int) ([]Cmd, error) {
	var cmds []Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Seek(marshalSeq(uint64(from))); k != nil && unmarshalSeq(k) < uint64(upto); k, v = c.Next() {
			cmds = append(cmds, Cmd{Text: string(v), Seq: int(unmarshalSeq(k))})
		}
		return nil
	})
	return cmds, err
}

// LastCmds returns the last n entries, oldest first.
func (s *dbStore) LastCmds(n int) ([]Cmd, error) {
	var cmds []Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Last(); k != nil && len(cmds) < n; k, v = c.Prev() {
			cmds = append(cmds, Cmd{Text: string(v), Seq: int(unmarshalSeq(k))})
		}
		return nil
	})
	for i, j := 0, len(cmds)-1; i < j; i, j = i+1, j-1 {
		cmds[i], cmds[j] = cmds[j], cmds[i]
	}
	return cmds, err
}

// NextCmd finds the first entry at or after the given sequence number whose
// text has the given prefix.
func (s *dbStore) NextCmd(from int, prefix string) (Cmd, error) {
	var cmd Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(marshalSeq(uint64(from))); k != nil; k, v = c.Next() {
			if bytes.HasPrefix(v, p) {
				cmd = Cmd{Text: string(v), Seq: int(unmarshalSeq(k))}
				return nil
			}
		}
		return ErrNoMatchingCmd
	})
	return cmd, err
}

// PrevCmd finds the last entry before the given sequence number whose text
// has the given prefix.
func (s *dbStore) PrevCmd(upto int, prefix string) (Cmd, error) {
	var cmd Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		p := []byte(prefix)

		var v []byte
		k, _ := c.Seek(marshalSeq(uint64(upto)))
		if k == nil {
			// Every entry is before upto.
			k, v = c.Last()
		} else {
			k, v = c.Prev()
		}
		for ; k != nil; k, v = c.Prev() {
			if bytes.HasPrefix(v, p) {
				cmd = Cmd{Text: string(v), Seq: int(unmarshalSeq(k))}
				return nil
			}
		}
		return ErrNoMatchingCmd
	})
	return cmd, err
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
