// Package gocraft is a client for servers speaking the Minecraft: Pi
// edition line protocol, including raspberry-juice and the server in this
// module.
package gocraft

import (
	"strings"

	"github.com/icexin/gocraft-pi/proto"
)

// World bundles the parts of a server connection.
type World struct {
	Conn    *Connection
	Player  *HostPlayer
	Players *Players
	Blocks  *Blocks
	Events  *Events
}

func Connect(addr string, opts Options) (*World, error) {
	c, err := Dial(addr, opts)
	if err != nil {
		return nil, err
	}
	return NewWorld(c), nil
}

func NewWorld(c *Connection) *World {
	return &World{
		Conn:    c,
		Player:  &HostPlayer{conn: c},
		Players: &Players{conn: c},
		Blocks:  &Blocks{conn: c},
		Events:  NewEvents(c),
	}
}

// Say posts msg to the chat console, one chat.post per line.
func (w *World) Say(msg string) error {
	for _, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		if err := w.Conn.Send(proto.Format(proto.CmdChatPost, strings.TrimRight(line, "\r"))); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) Close() error {
	return w.Conn.Close()
}
