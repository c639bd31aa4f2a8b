package gocraft

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/yamux"
	"github.com/stretchr/testify/require"

	"github.com/icexin/gocraft-pi/proto"
	"github.com/icexin/gocraft-pi/vector"
)

const testTimeout = 50 * time.Millisecond

// fakeServer is a tiny in-memory world speaking the line protocol.
type fakeServer struct {
	t      *testing.T
	ln     net.Listener
	flavor Flavor
	mux    bool

	mu      sync.Mutex
	log     []string
	blocks  map[vector.Vector]proto.Block
	players map[int]vector.Vector
	hits    []proto.BlockHit
	chat    []string
	conns   []net.Conn
	// reply overrides the reply to a command, by name
	reply map[string]string
}

func newFakeServer(t *testing.T, flavor Flavor) *fakeServer {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeServer{
		t:       t,
		ln:      ln,
		flavor:  flavor,
		blocks:  map[vector.Vector]proto.Block{},
		players: map[int]vector.Vector{1: vector.NewFloat(0.5, 0, 0.5)},
		reply:   map[string]string{},
	}
	go s.serve()
	t.Cleanup(s.close)
	return s
}

func (s *fakeServer) addr() string {
	return s.ln.Addr().String()
}

func (s *fakeServer) close() {
	s.ln.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
}

func (s *fakeServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		mux := s.mux
		s.mu.Unlock()
		if !mux {
			go s.handle(conn)
			continue
		}
		sess, err := yamux.Server(conn, nil)
		if err != nil {
			conn.Close()
			continue
		}
		go func() {
			for {
				stream, err := sess.Accept()
				if err != nil {
					return
				}
				go s.handle(stream)
			}
		}()
	}
}

func (s *fakeServer) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		res := s.exec(strings.TrimRight(line, "\n"))
		switch {
		case res.fail && s.flavor == RaspberryJuice:
			conn.Write([]byte(proto.Fail + "\n"))
		case res.fail:
		case res.hasReply:
			conn.Write([]byte(res.reply + "\n"))
		}
	}
}

func (s *fakeServer) commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.log...)
}

type result struct {
	reply    string
	hasReply bool
	fail     bool
}

var (
	failed = result{fail: true}
	done   = result{}
)

func replied(s string) result {
	return result{reply: s, hasReply: true}
}

func (s *fakeServer) exec(line string) result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, line)
	cmd, err := proto.ParseCommand(line)
	if err != nil {
		return failed
	}
	if r, ok := s.reply[cmd.Name]; ok {
		if r == proto.Fail {
			return failed
		}
		return replied(r)
	}
	if cmd.Name == proto.Probe {
		return failed
	}
	return s.run(cmd)
}

func (s *fakeServer) run(c proto.Command) result {
	switch c.Name {
	case proto.CmdGetBlockWithData, proto.CmdGetBlock:
		v, err := c.Vector(0, vector.KindInt)
		if err != nil {
			return failed
		}
		if c.Name == proto.CmdGetBlock {
			return replied(strconv.Itoa(s.blocks[v].ID))
		}
		return replied(s.blocks[v].String())
	case proto.CmdSetBlock:
		v, err := c.Vector(0, vector.KindInt)
		if err != nil || len(c.Args) < 4 {
			return failed
		}
		b, _ := proto.ParseBlock(strings.Join(c.Args[3:], ","))
		s.blocks[v] = b
		return done
	case proto.CmdSetBlocks, proto.CmdGetBlocks:
		a, err := c.Vector(0, vector.KindInt)
		if err != nil {
			return failed
		}
		b, err := c.Vector(3, vector.KindInt)
		if err != nil {
			return failed
		}
		lo := vector.Of(minNum(a.X, b.X), minNum(a.Y, b.Y), minNum(a.Z, b.Z))
		hi := vector.Of(maxNum(a.X, b.X), maxNum(a.Y, b.Y), maxNum(a.Z, b.Z))
		r, _ := vector.RangeBetween(lo, hi.Add(vector.One))
		if c.Name == proto.CmdGetBlocks {
			if s.flavor != RaspberryJuice {
				return failed
			}
			var ids []int
			for it := r.Iter(); it.Next(); {
				ids = append(ids, s.blocks[it.Vector()].ID)
			}
			return replied(proto.FormatBlockIDs(ids))
		}
		blk, _ := proto.ParseBlock(strings.Join(c.Args[6:], ","))
		for it := r.Iter(); it.Next(); {
			s.blocks[it.Vector()] = blk
		}
		return done
	case proto.CmdGetHeight:
		ints, err := c.Ints()
		if err != nil || len(ints) != 2 {
			return failed
		}
		h := int64(0)
		for v, b := range s.blocks {
			p := v.Ints()
			if p[0] == ints[0] && p[2] == ints[1] && b.ID != 0 && p[1] > h {
				h = p[1]
			}
		}
		return replied(strconv.FormatInt(h, 10))
	case proto.CmdGetPlayerIDs:
		var ids []int
		for id := range s.players {
			ids = append(ids, id)
		}
		return replied(proto.FormatPlayerIDs(ids))
	case proto.CmdPlayerGetPos:
		return replied(s.players[1].String())
	case proto.CmdPlayerGetTile:
		return replied(s.players[1].Floor().String())
	case proto.CmdEntityGetPos, proto.CmdEntityGetTile:
		ints, err := c.Ints()
		if err != nil || len(ints) != 1 {
			return failed
		}
		pos, ok := s.players[int(ints[0])]
		if !ok {
			return failed
		}
		if c.Name == proto.CmdEntityGetTile {
			pos = pos.Floor()
		}
		return replied(pos.String())
	case proto.CmdPlayerSetPos, proto.CmdPlayerSetTile:
		v, err := c.Vector(0, vector.KindFloat)
		if err != nil {
			return failed
		}
		s.players[1] = v
		return done
	case proto.CmdEntitySetPos, proto.CmdEntitySetTile:
		v, err := c.Vector(1, vector.KindFloat)
		if err != nil {
			return failed
		}
		id, err := strconv.Atoi(c.Args[0])
		if err != nil {
			return failed
		}
		s.players[id] = v
		return done
	case proto.CmdBlockHits:
		hits := proto.FormatBlockHits(s.hits)
		s.hits = nil
		return replied(hits)
	case proto.CmdEventsClear:
		s.hits = nil
		return done
	case proto.CmdChatPost:
		s.chat = append(s.chat, c.Raw)
		return done
	}
	return failed
}

func (s *fakeServer) setReply(name, reply string) {
	s.mu.Lock()
	s.reply[name] = reply
	s.mu.Unlock()
}

func (s *fakeServer) setMux() {
	s.mu.Lock()
	s.mux = true
	s.mu.Unlock()
}

func (s *fakeServer) block(v vector.Vector) proto.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks[v]
}

func (s *fakeServer) chatLines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.chat...)
}

func (s *fakeServer) movePlayer(id int, pos vector.Vector) {
	s.mu.Lock()
	s.players[id] = pos
	s.mu.Unlock()
}

func (s *fakeServer) hit(h proto.BlockHit) {
	s.mu.Lock()
	s.hits = append(s.hits, h)
	s.mu.Unlock()
}

func minNum(a, b vector.Num) vector.Num {
	if a.Compare(b) < 0 {
		return a
	}
	return b
}

func maxNum(a, b vector.Num) vector.Num {
	if a.Compare(b) > 0 {
		return a
	}
	return b
}

func dial(t *testing.T, s *fakeServer) *Connection {
	c, err := Dial(s.addr(), Options{Timeout: testTimeout})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}
