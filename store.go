package main

import (
	"bytes"
	"encoding/binary"
	"log"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/boltdb/bolt"

	"github.com/icexin/gocraft-pi/proto"
	"github.com/icexin/gocraft-pi/vector"
)

var (
	blockBucket  = []byte("block")
	chunkBucket  = []byte("chunk")
	playerBucket = []byte("player")
)

const (
	ChunkWidth = 32
)

// Store persists the world: non-air blocks keyed by chunk, a version stamp
// per chunk and the last position of every entity.
type Store struct {
	db *bolt.DB

	mu      sync.Mutex
	heights map[string]chunkHeights
}

// chunkHeights is the column height map of one chunk as of version.
type chunkHeights struct {
	version string
	heights map[[2]int64]int64
}

func NewStore(p string) (*Store, error) {
	db, err := bolt.Open(p, 0666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{blockBucket, chunkBucket, playerBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	db.NoSync = true
	return &Store{
		db:      db,
		heights: make(map[string]chunkHeights),
	}, nil
}

// UpdateBlock stores b at pos. Air deletes the entry.
func (s *Store) UpdateBlock(pos vector.Vector, b proto.Block) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		version := GenerateChunkVersion()
		return putBlock(tx, pos, b, version)
	})
}

// UpdateBlocks stores b at every position it yields in one transaction.
func (s *Store) UpdateBlocks(it vector.Iterator, b proto.Block) (int, error) {
	n := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		version := GenerateChunkVersion()
		for it.Next() {
			if err := putBlock(tx, it.Vector(), b, version); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

func putBlock(tx *bolt.Tx, pos vector.Vector, b proto.Block, version string) error {
	bkt := tx.Bucket(blockBucket)
	cid := Chunkid(pos)
	key := encodeBlockDbKey(cid, pos)
	if b.ID == 0 {
		if err := bkt.Delete(key); err != nil {
			return err
		}
	} else if err := bkt.Put(key, encodeBlockDbValue(b)); err != nil {
		return err
	}
	return tx.Bucket(chunkBucket).Put(encodeVector(cid), []byte(version))
}

func (s *Store) GetBlock(pos vector.Vector) (proto.Block, error) {
	var b proto.Block
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(blockBucket).Get(encodeBlockDbKey(Chunkid(pos), pos))
		if v != nil {
			b = decodeBlockDbValue(v)
		}
		return nil
	})
	return b, err
}

// RangeBlocks calls f for every non-air block of chunk cid.
func (s *Store) RangeBlocks(cid vector.Vector, f func(pos vector.Vector, b proto.Block)) error {
	return s.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(blockBucket)
		prefix := encodeChunkPrefix(cid)
		iter := bkt.Cursor()
		for k, v := iter.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = iter.Next() {
			_, pos := decodeBlockDbKey(k)
			f(pos, decodeBlockDbValue(v))
		}
		return nil
	})
}

// Height is the y of the highest non-air block in column x, z, or 0 for an
// empty column.
func (s *Store) Height(x, z int64) (int64, error) {
	hm, err := s.chunkHeights(Chunkid(vector.New(x, 0, z)))
	if err != nil {
		return 0, err
	}
	return hm[[2]int64{x, z}], nil
}

// chunkHeights returns the height map of chunk cid, scanning the chunk again
// only when its version has changed. A chunk with no version was never
// written and has no map.
func (s *Store) chunkHeights(cid vector.Vector) (map[[2]int64]int64, error) {
	key := encodeVector(cid)
	var hm map[[2]int64]int64
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(chunkBucket).Get(key)
		if v == nil {
			return nil
		}
		version := string(v)
		s.mu.Lock()
		cached, ok := s.heights[string(key)]
		s.mu.Unlock()
		if ok && cached.version == version {
			hm = cached.heights
			return nil
		}

		hm = make(map[[2]int64]int64)
		prefix := encodeChunkPrefix(cid)
		iter := tx.Bucket(blockBucket).Cursor()
		for k, _ := iter.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = iter.Next() {
			_, pos := decodeBlockDbKey(k)
			p := pos.Ints()
			col := [2]int64{p[0], p[2]}
			if h, ok := hm[col]; !ok || p[1] > h {
				hm[col] = p[1]
			}
		}
		s.mu.Lock()
		s.heights[string(key)] = chunkHeights{version: version, heights: hm}
		s.mu.Unlock()
		return nil
	})
	return hm, err
}

func (s *Store) GetChunkVersion(cid vector.Vector) string {
	var version string
	s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(chunkBucket).Get(encodeVector(cid))
		if v != nil {
			version = string(v)
		}
		return nil
	})
	return version
}

func (s *Store) UpdatePlayer(id int, pos vector.Vector) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		buf := new(bytes.Buffer)
		binary.Write(buf, binary.LittleEndian, pos.Floats())
		return tx.Bucket(playerBucket).Put(encodePlayerKey(id), buf.Bytes())
	})
}

// GetPlayer returns the last stored position of entity id.
func (s *Store) GetPlayer(id int) (vector.Vector, bool) {
	var (
		pos vector.Vector
		ok  bool
	)
	s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(playerBucket).Get(encodePlayerKey(id))
		if len(value) != 3*8 {
			return nil
		}
		var f [3]float64
		binary.Read(bytes.NewReader(value), binary.LittleEndian, &f)
		pos, ok = vector.NewFloat(f[0], f[1], f[2]), true
		return nil
	})
	return pos, ok
}

func (s *Store) Close() {
	s.db.Sync()
	s.db.Close()
}

// Chunkid is the chunk holding pos, with y always 0.
func Chunkid(pos vector.Vector) vector.Vector {
	p := pos.Floor().Ints()
	return vector.New(
		int64(math.Floor(float64(p[0])/ChunkWidth)),
		0,
		int64(math.Floor(float64(p[2])/ChunkWidth)),
	)
}

func encodeVector(v vector.Vector) []byte {
	p := v.Floor().Ints()
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, [...]int32{int32(p[0]), int32(p[1]), int32(p[2])})
	return buf.Bytes()
}

func encodeChunkPrefix(cid vector.Vector) []byte {
	c := cid.Ints()
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, [...]int32{int32(c[0]), int32(c[2])})
	return buf.Bytes()
}

func encodeBlockDbKey(cid, pos vector.Vector) []byte {
	return append(encodeChunkPrefix(cid), encodeVector(pos)...)
}

func decodeBlockDbKey(b []byte) (vector.Vector, vector.Vector) {
	if len(b) != 4*5 {
		log.Panicf("bad db key length:%d", len(b))
	}
	var arr [5]int32
	binary.Read(bytes.NewReader(b), binary.LittleEndian, &arr)

	cid := vector.New(int64(arr[0]), 0, int64(arr[1]))
	pos := vector.New(int64(arr[2]), int64(arr[3]), int64(arr[4]))
	if !Chunkid(pos).Equal(cid) {
		log.Panicf("bad db key: cid:%v, pos:%v", cid, pos)
	}
	return cid, pos
}

func encodeBlockDbValue(b proto.Block) []byte {
	value := make([]byte, 8)
	binary.LittleEndian.PutUint32(value, uint32(b.ID))
	binary.LittleEndian.PutUint32(value[4:], uint32(b.Data))
	return value
}

func decodeBlockDbValue(b []byte) proto.Block {
	if len(b) != 8 {
		log.Panicf("bad db value length:%d", len(b))
	}
	return proto.Block{
		ID:   int(binary.LittleEndian.Uint32(b)),
		Data: int(binary.LittleEndian.Uint32(b[4:])),
	}
}

func encodePlayerKey(id int) []byte {
	key := make([]byte, 4)
	binary.LittleEndian.PutUint32(key, uint32(id))
	return key
}

var versionSeq atomic.Uint64

// GenerateChunkVersion returns a stamp that differs from every earlier one,
// even for writes within the same clock tick.
func GenerateChunkVersion() string {
	return strconv.FormatInt(time.Now().UnixNano(), 16) + "-" + strconv.FormatUint(versionSeq.Add(1), 16)
}
