package gocraft

import (
	"github.com/icexin/gocraft-pi/proto"
	"github.com/icexin/gocraft-pi/vector"
)

// HostPlayer is the player the server runs as; it needs no id.
type HostPlayer struct {
	conn *Connection
}

// Pos is the exact, fractional position of the player.
func (p *HostPlayer) Pos() (vector.Vector, error) {
	return getVector(p.conn, proto.Format(proto.CmdPlayerGetPos), vector.KindFloat)
}

func (p *HostPlayer) SetPos(v vector.Vector) error {
	return p.conn.Send(proto.Format(proto.CmdPlayerSetPos, v))
}

// TilePos is the block the player is standing in.
func (p *HostPlayer) TilePos() (vector.Vector, error) {
	return getVector(p.conn, proto.Format(proto.CmdPlayerGetTile), vector.KindInt)
}

func (p *HostPlayer) SetTilePos(v vector.Vector) error {
	return p.conn.Send(proto.Format(proto.CmdPlayerSetTile, v.Floor()))
}

// Player is any connected player, addressed by entity id.
type Player struct {
	conn *Connection
	id   int
}

func (p *Player) ID() int {
	return p.id
}

func (p *Player) Pos() (vector.Vector, error) {
	return getVector(p.conn, proto.Format(proto.CmdEntityGetPos, p.id), vector.KindFloat)
}

func (p *Player) SetPos(v vector.Vector) error {
	return p.conn.Send(proto.Format(proto.CmdEntitySetPos, p.id, v))
}

func (p *Player) TilePos() (vector.Vector, error) {
	return getVector(p.conn, proto.Format(proto.CmdEntityGetTile, p.id), vector.KindInt)
}

func (p *Player) SetTilePos(v vector.Vector) error {
	return p.conn.Send(proto.Format(proto.CmdEntitySetTile, p.id, v.Floor()))
}

// Players lists the players currently in the world.
type Players struct {
	conn *Connection
}

func (ps *Players) IDs() ([]int, error) {
	s, err := ps.conn.Transact(proto.Format(proto.CmdGetPlayerIDs))
	if err != nil {
		return nil, err
	}
	return proto.ParsePlayerIDs(s)
}

// Get returns a handle for id without checking that the player exists.
func (ps *Players) Get(id int) *Player {
	return &Player{conn: ps.conn, id: id}
}

// All returns a handle for every connected player.
func (ps *Players) All() ([]*Player, error) {
	ids, err := ps.IDs()
	if err != nil {
		return nil, err
	}
	out := make([]*Player, len(ids))
	for i, id := range ids {
		out[i] = ps.Get(id)
	}
	return out, nil
}

func getVector(c *Connection, cmd string, kind vector.Kind) (vector.Vector, error) {
	s, err := c.Transact(cmd)
	if err != nil {
		return vector.Vector{}, err
	}
	return vector.ParseAs(s, kind)
}
