package main

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/icexin/gocraft-pi/proto"
	"github.com/icexin/gocraft-pi/vector"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errUnknownEntity  = errors.New("unknown entity")
	errBadArgs        = errors.New("bad arguments")
)

// Reply is the outcome of one command. Commands like setBlock have no
// reply line at all.
type Reply struct {
	Line string
	Ok   bool
}

func reply(s string) Reply { return Reply{Line: s, Ok: true} }

var noReply = Reply{}

type handlerFunc func(s *WorldService, id int, c proto.Command) (Reply, error)

// WorldService executes protocol commands against the store. Entity ids
// are session ids; player.* commands address the caller's own entity.
type WorldService struct {
	mutex  sync.Mutex
	store  *Store
	flavor string
	spawn  vector.Vector

	players map[int]vector.Vector
	hits    map[int][]proto.BlockHit
	chat    []string

	handlers map[string]handlerFunc
}

func NewWorldService(store *Store, cfg Config) (*WorldService, error) {
	spawn, err := cfg.SpawnPos()
	if err != nil {
		return nil, err
	}
	s := &WorldService{
		store:   store,
		flavor:  cfg.Flavor,
		spawn:   spawn,
		players: make(map[int]vector.Vector),
		hits:    make(map[int][]proto.BlockHit),
	}
	s.handlers = map[string]handlerFunc{
		proto.CmdGetBlock:         (*WorldService).getBlock,
		proto.CmdGetBlockWithData: (*WorldService).getBlock,
		proto.CmdSetBlock:         (*WorldService).setBlock,
		proto.CmdSetBlocks:        (*WorldService).setBlocks,
		proto.CmdGetHeight:        (*WorldService).getHeight,
		proto.CmdGetPlayerIDs:     (*WorldService).getPlayerIDs,
		proto.CmdChatPost:         (*WorldService).chatPost,
		proto.CmdPlayerGetPos:     (*WorldService).getPos,
		proto.CmdPlayerGetTile:    (*WorldService).getPos,
		proto.CmdPlayerSetPos:     (*WorldService).setPos,
		proto.CmdPlayerSetTile:    (*WorldService).setPos,
		proto.CmdEntityGetPos:     (*WorldService).getPos,
		proto.CmdEntityGetTile:    (*WorldService).getPos,
		proto.CmdEntitySetPos:     (*WorldService).setPos,
		proto.CmdEntitySetTile:    (*WorldService).setPos,
		proto.CmdBlockHits:        (*WorldService).blockHits,
		proto.CmdEventsClear:      (*WorldService).eventsClear,
	}
	if cfg.Flavor == FlavorJuice {
		s.handlers[proto.CmdGetBlocks] = (*WorldService).getBlocks
	}
	return s, nil
}

// Exec runs one command line for entity id.
func (s *WorldService) Exec(id int, line string) (Reply, error) {
	c, err := proto.ParseCommand(line)
	if err != nil {
		return noReply, err
	}
	h, ok := s.handlers[c.Name]
	if !ok {
		return noReply, fmt.Errorf("%w: %s", errUnknownCommand, c.Name)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return h(s, id, c)
}

func (s *WorldService) onPlayerCallback(action string, id int) {
	switch action {
	case "online":
		s.addPlayer(id)
	case "offline":
		s.removePlayer(id)
	}
}

func (s *WorldService) addPlayer(id int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	pos, ok := s.store.GetPlayer(id)
	if !ok {
		pos = s.spawn
	}
	s.players[id] = pos
}

func (s *WorldService) removePlayer(id int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.players, id)
	delete(s.hits, id)
}

// RecordHit queues a block hit for every connected entity.
func (s *WorldService) RecordHit(hit proto.BlockHit) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for id := range s.players {
		s.hits[id] = append(s.hits[id], hit)
	}
}

// Chat returns the messages posted so far.
func (s *WorldService) Chat() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]string(nil), s.chat...)
}

func (s *WorldService) getBlock(id int, c proto.Command) (Reply, error) {
	pos, err := c.Vector(0, vector.KindInt)
	if err != nil {
		return noReply, err
	}
	b, err := s.store.GetBlock(pos)
	if err != nil {
		return noReply, err
	}
	if c.Name == proto.CmdGetBlock {
		return reply(strconv.Itoa(b.ID)), nil
	}
	return reply(b.String()), nil
}

func (s *WorldService) setBlock(id int, c proto.Command) (Reply, error) {
	pos, err := c.Vector(0, vector.KindInt)
	if err != nil {
		return noReply, err
	}
	b, err := blockArg(c, 3)
	if err != nil {
		return noReply, err
	}
	return noReply, s.store.UpdateBlock(pos, b)
}

func (s *WorldService) setBlocks(id int, c proto.Command) (Reply, error) {
	r, err := cuboid(c)
	if err != nil {
		return noReply, err
	}
	b, err := blockArg(c, 6)
	if err != nil {
		return noReply, err
	}
	n, err := s.store.UpdateBlocks(r.Iter(), b)
	if err != nil {
		return noReply, err
	}
	log.Printf("setBlocks: %v -> %v (%d blocks)", r, b, n)
	return noReply, nil
}

// getBlocks answers with the ids of the cuboid, z varying fastest and y
// slowest.
func (s *WorldService) getBlocks(id int, c proto.Command) (Reply, error) {
	r, err := cuboid(c)
	if err != nil {
		return noReply, err
	}
	ids := make([]int, 0, r.Len())
	for it := r.Iter(); it.Next(); {
		b, err := s.store.GetBlock(it.Vector())
		if err != nil {
			return noReply, err
		}
		ids = append(ids, b.ID)
	}
	return reply(proto.FormatBlockIDs(ids)), nil
}

func (s *WorldService) getHeight(id int, c proto.Command) (Reply, error) {
	args, err := c.Ints()
	if err != nil {
		return noReply, err
	}
	if len(args) != 2 {
		return noReply, fmt.Errorf("%w: %s wants x,z", errBadArgs, c.Name)
	}
	h, err := s.store.Height(args[0], args[1])
	if err != nil {
		return noReply, err
	}
	return reply(strconv.FormatInt(h, 10)), nil
}

func (s *WorldService) getPlayerIDs(id int, c proto.Command) (Reply, error) {
	ids := make([]int, 0, len(s.players))
	for pid := range s.players {
		ids = append(ids, pid)
	}
	sort.Ints(ids)
	return reply(proto.FormatPlayerIDs(ids)), nil
}

func (s *WorldService) chatPost(id int, c proto.Command) (Reply, error) {
	log.Printf("chat(%d): %s", id, c.Raw)
	s.chat = append(s.chat, c.Raw)
	return noReply, nil
}

// entity resolves the target of a player.* or entity.* command and the
// index of its first remaining argument.
func (s *WorldService) entity(id int, c proto.Command) (int, int, error) {
	switch c.Name {
	case proto.CmdPlayerGetPos, proto.CmdPlayerGetTile, proto.CmdPlayerSetPos, proto.CmdPlayerSetTile:
		return id, 0, nil
	}
	if len(c.Args) == 0 {
		return 0, 0, fmt.Errorf("%w: %s wants an entity id", errBadArgs, c.Name)
	}
	eid, err := strconv.Atoi(c.Args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", errBadArgs, c.Name, err)
	}
	if _, ok := s.players[eid]; !ok {
		return 0, 0, fmt.Errorf("%w: %d", errUnknownEntity, eid)
	}
	return eid, 1, nil
}

func (s *WorldService) getPos(id int, c proto.Command) (Reply, error) {
	eid, _, err := s.entity(id, c)
	if err != nil {
		return noReply, err
	}
	pos := s.players[eid]
	if c.Name == proto.CmdPlayerGetTile || c.Name == proto.CmdEntityGetTile {
		pos = pos.Floor()
	}
	return reply(pos.String()), nil
}

func (s *WorldService) setPos(id int, c proto.Command) (Reply, error) {
	eid, i, err := s.entity(id, c)
	if err != nil {
		return noReply, err
	}
	kind := vector.KindFloat
	if c.Name == proto.CmdPlayerSetTile || c.Name == proto.CmdEntitySetTile {
		kind = vector.KindInt
	}
	pos, err := c.Vector(i, kind)
	if err != nil {
		return noReply, err
	}
	f := pos.Floats()
	pos = vector.NewFloat(f[0], f[1], f[2])
	s.players[eid] = pos
	return noReply, s.store.UpdatePlayer(eid, pos)
}

func (s *WorldService) blockHits(id int, c proto.Command) (Reply, error) {
	hits := s.hits[id]
	delete(s.hits, id)
	return reply(proto.FormatBlockHits(hits)), nil
}

func (s *WorldService) eventsClear(id int, c proto.Command) (Reply, error) {
	delete(s.hits, id)
	return noReply, nil
}

func blockArg(c proto.Command, i int) (proto.Block, error) {
	if i >= len(c.Args) {
		return proto.Block{}, fmt.Errorf("%w: %s wants a block id", errBadArgs, c.Name)
	}
	args := c.Args[i:]
	if len(args) > 2 {
		args = args[:2]
	}
	b, err := proto.ParseBlock(strings.Join(args, ","))
	if err != nil {
		return b, err
	}
	if b.ID < 0 || b.ID > 255 || b.Data < 0 || b.Data > 15 {
		return b, fmt.Errorf("%w: block %v out of range", errBadArgs, b)
	}
	return b, nil
}

// cuboid is the unit step range covering both corners given as the first
// six arguments, in the order world.getBlocks reports it.
func cuboid(c proto.Command) (vector.Range, error) {
	a, err := c.Vector(0, vector.KindInt)
	if err != nil {
		return vector.Range{}, err
	}
	b, err := c.Vector(3, vector.KindInt)
	if err != nil {
		return vector.Range{}, err
	}
	pa, pb := a.Ints(), b.Ints()
	var lo, hi [3]int64
	for i := range pa {
		lo[i], hi[i] = pa[i], pb[i]
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
		hi[i]++
	}
	return vector.RangeBetween(vector.New(lo[0], lo[1], lo[2]), vector.New(hi[0], hi[1], hi[2]))
}
