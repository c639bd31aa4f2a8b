package gocraft

import (
	"fmt"

	"github.com/icexin/gocraft-pi/proto"
	"github.com/icexin/gocraft-pi/vector"
)

// Blocks reads and writes the blocks of the world.
type Blocks struct {
	conn *Connection
}

func (b *Blocks) Get(pos vector.Vector) (proto.Block, error) {
	s, err := b.conn.Transact(proto.Format(proto.CmdGetBlockWithData, pos.Floor()))
	if err != nil {
		return proto.Block{}, err
	}
	return proto.ParseBlock(s)
}

func (b *Blocks) Set(pos vector.Vector, blk proto.Block) error {
	return b.conn.Send(proto.Format(proto.CmdSetBlock, pos.Floor(), blk))
}

// SetRange fills r with blk. A range with unit steps is one world.setBlocks
// command between its corners; any other range is a batch of setBlock.
func (b *Blocks) SetRange(r vector.Range, blk proto.Block) error {
	if r.Empty() {
		return nil
	}
	if unitStep(r.Step().Abs()) {
		first, _ := r.At(0)
		last, _ := r.At(-1)
		return b.conn.Send(proto.Format(proto.CmdSetBlocks, first, last, blk))
	}
	return b.SetMany(r.Iter(), blk)
}

// SetMany sets every position it yields to blk in a single batch.
func (b *Blocks) SetMany(it vector.Iterator, blk proto.Block) error {
	return b.conn.Batch(func() error {
		for it.Next() {
			if err := b.Set(it.Vector(), blk); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRange returns the block at every position of r. raspberry-juice can
// answer a unit step range in one world.getBlocks round trip, though without
// data values; everything else costs a round trip per block.
func (b *Blocks) GetRange(r vector.Range) (map[vector.Vector]proto.Block, error) {
	out := make(map[vector.Vector]proto.Block, r.Len())
	if r.Empty() {
		return out, nil
	}
	if b.conn.ServerVersion() == RaspberryJuice && unitStep(r.Step()) {
		return b.getBlocks(r, out)
	}
	for it := r.Iter(); it.Next(); {
		blk, err := b.Get(it.Vector())
		if err != nil {
			return nil, err
		}
		out[it.Vector()] = blk
	}
	return out, nil
}

func (b *Blocks) getBlocks(r vector.Range, out map[vector.Vector]proto.Block) (map[vector.Vector]proto.Block, error) {
	// the server walks z fastest and y slowest
	layout, err := vector.NewRange(r.Start(), r.Stop(), vector.One, vector.ZXY)
	if err != nil {
		return nil, err
	}
	last, _ := layout.At(-1)
	s, err := b.conn.Transact(proto.Format(proto.CmdGetBlocks, layout.Start(), last))
	if err != nil {
		return nil, err
	}
	ids, err := proto.ParseBlockIDs(s)
	if err != nil {
		return nil, err
	}
	if int64(len(ids)) != layout.Len() {
		return nil, fmt.Errorf("getBlocks: want %d blocks, got %d", layout.Len(), len(ids))
	}
	for i, it := 0, layout.Iter(); it.Next(); i++ {
		out[it.Vector()] = proto.Block{ID: ids[i]}
	}
	return out, nil
}

// Height returns the y coordinate of the highest non-air block at x, z.
func (b *Blocks) Height(x, z int64) (int64, error) {
	s, err := b.conn.Transact(proto.Format(proto.CmdGetHeight, x, z))
	if err != nil {
		return 0, err
	}
	n, err := vector.ParseNum(s, vector.KindInt)
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

func unitStep(v vector.Vector) bool {
	return v.Equal(vector.One)
}
