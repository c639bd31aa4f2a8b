// Package proto is the line protocol spoken between the client and the
// server: one ASCII command per line of the form name(arg,arg,...), and at
// most one reply line.
package proto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/icexin/gocraft-pi/vector"
)

// Fail is the reply a raspberry-juice server sends for a command it could
// not run. minecraft-pi servers stay silent instead.
const Fail = "Fail"

// Probe is a command no server implements, sent once per connection to
// tell the two server flavours apart.
const Probe = "foo"

// world
const (
	CmdGetBlock         = "world.getBlock"
	CmdGetBlockWithData = "world.getBlockWithData"
	CmdGetBlocks        = "world.getBlocks"
	CmdSetBlock         = "world.setBlock"
	CmdSetBlocks        = "world.setBlocks"
	CmdGetHeight        = "world.getHeight"
	CmdGetPlayerIDs     = "world.getPlayerIds"
	CmdChatPost         = "chat.post"
)

// host player and other entities
const (
	CmdPlayerGetPos  = "player.getPos"
	CmdPlayerSetPos  = "player.setPos"
	CmdPlayerGetTile = "player.getTile"
	CmdPlayerSetTile = "player.setTile"
	CmdEntityGetPos  = "entity.getPos"
	CmdEntitySetPos  = "entity.setPos"
	CmdEntityGetTile = "entity.getTile"
	CmdEntitySetTile = "entity.setTile"
)

// events
const (
	CmdBlockHits   = "events.block.hits"
	CmdEventsClear = "events.clear"
)

// Command is a parsed request line.
type Command struct {
	Name string
	// Raw is everything between the parentheses. chat.post uses it verbatim.
	Raw  string
	Args []string
}

// Format renders name(args...) with every argument in its String form, so
// a vector.Vector expands to three comma separated components.
func Format(name string, args ...interface{}) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

func ParseCommand(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	open := strings.IndexByte(line, '(')
	if open <= 0 || !strings.HasSuffix(line, ")") {
		return Command{}, fmt.Errorf("malformed command %q", line)
	}
	c := Command{
		Name: line[:open],
		Raw:  line[open+1 : len(line)-1],
	}
	if c.Raw != "" {
		c.Args = strings.Split(c.Raw, ",")
	}
	return c, nil
}

func (c Command) String() string {
	return c.Name + "(" + c.Raw + ")"
}

// Ints parses every argument as an integer.
func (c Command) Ints() ([]int64, error) {
	out := make([]int64, len(c.Args))
	for i, a := range c.Args {
		n, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", c.Name, i, err)
		}
		out[i] = n
	}
	return out, nil
}

// Vector parses the three arguments starting at i.
func (c Command) Vector(i int, kind vector.Kind) (vector.Vector, error) {
	if i < 0 || i+3 > len(c.Args) {
		return vector.Vector{}, fmt.Errorf("%s: want a vector at argument %d, have %d arguments", c.Name, i, len(c.Args))
	}
	return vector.ParseAs(strings.Join(c.Args[i:i+3], ","), kind)
}
