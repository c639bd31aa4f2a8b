package gocraft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/icexin/gocraft-pi/proto"
	"github.com/icexin/gocraft-pi/vector"
)

// Event is one of BlockHitEvent, PlayerPosEvent or IdleEvent.
type Event interface {
	event()
}

// BlockHitEvent fires when a player strikes a block with a sword.
type BlockHitEvent struct {
	proto.BlockHit
}

// PlayerPosEvent fires when a tracked player moves. Positions are rounded
// to one decimal place.
type PlayerPosEvent struct {
	Old, New vector.Vector
	Player   int
}

// IdleEvent fires when a poll yields nothing else and idle events are on.
type IdleEvent struct{}

func (BlockHitEvent) event()  {}
func (PlayerPosEvent) event() {}
func (IdleEvent) event()      {}

func (e BlockHitEvent) String() string {
	return fmt.Sprintf("<BlockHitEvent pos=%v face=%v player=%d>", e.Pos, e.Face, e.Player)
}

func (e PlayerPosEvent) String() string {
	return fmt.Sprintf("<PlayerPosEvent old_pos=%v new_pos=%v player=%d>", e.Old, e.New, e.Player)
}

func (IdleEvent) String() string { return "<IdleEvent>" }

// Flag controls how a handler runs.
type Flag uint8

const (
	// Async runs the handler on its own goroutine.
	Async Flag = 1 << iota
	// Multi lets async invocations overlap. Without it an event arriving
	// while the previous invocation still runs is dropped.
	Multi
)

// BlockHitFilter restricts a block hit handler. Nil fields match anything.
type BlockHitFilter struct {
	Pos   vector.Container
	Faces []proto.Face
}

func (f BlockHitFilter) match(e BlockHitEvent) bool {
	if f.Pos != nil && !f.Pos.Contains(e.Pos) {
		return false
	}
	if f.Faces == nil {
		return true
	}
	for _, face := range f.Faces {
		if face == e.Face {
			return true
		}
	}
	return false
}

// PlayerPosFilter restricts a movement handler by the blocks the player
// moved from and to. Nil fields match anything.
type PlayerPosFilter struct {
	Old vector.Container
	New vector.Container
}

func (f PlayerPosFilter) match(e PlayerPosEvent) bool {
	if f.Old != nil && !f.Old.Contains(e.Old.Floor()) {
		return false
	}
	return f.New == nil || f.New.Contains(e.New.Floor())
}

type handler struct {
	match   func(Event) bool
	action  func(Event)
	flags   Flag
	running sync.Mutex
	wg      *sync.WaitGroup
}

func (h *handler) execute(e Event) {
	if h.flags&Async == 0 {
		h.action(e)
		return
	}
	if h.flags&Multi != 0 {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.action(e)
		}()
		return
	}
	if !h.running.TryLock() {
		return
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.running.Unlock()
		h.action(e)
	}()
}

const DefaultPollGap = 100 * time.Millisecond

// Events polls the server for events and dispatches them to handlers.
type Events struct {
	conn *Connection

	mu          sync.Mutex
	handlers    []*handler
	tracked     map[int]vector.Vector
	order       []int // tracked ids, in the order they were given
	includeIdle bool
	pollGap     time.Duration
	wg          sync.WaitGroup
}

func NewEvents(c *Connection) *Events {
	return &Events{
		conn:    c,
		tracked: map[int]vector.Vector{},
		pollGap: DefaultPollGap,
	}
}

func (ev *Events) PollGap() time.Duration {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.pollGap
}

// SetPollGap sets the pause between polls in MainLoop, which gives
// handlers time to talk to the server.
func (ev *Events) SetPollGap(d time.Duration) {
	ev.mu.Lock()
	ev.pollGap = d
	ev.mu.Unlock()
}

func (ev *Events) IncludeIdle() bool {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.includeIdle
}

func (ev *Events) SetIncludeIdle(b bool) {
	ev.mu.Lock()
	ev.includeIdle = b
	ev.mu.Unlock()
}

// TrackPlayers replaces the set of players whose movement produces
// PlayerPosEvents, recording where each one is now.
func (ev *Events) TrackPlayers(ids ...int) error {
	tracked := make(map[int]vector.Vector, len(ids))
	order := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := tracked[id]; ok {
			continue
		}
		pos, err := ev.playerPos(id)
		if err != nil {
			return err
		}
		tracked[id] = pos
		order = append(order, id)
	}
	ev.mu.Lock()
	ev.tracked, ev.order = tracked, order
	ev.mu.Unlock()
	return nil
}

func (ev *Events) Tracked() []int {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return append([]int(nil), ev.order...)
}

// Clear discards pending server events and re-reads tracked positions, so
// later polls only report what happens after the call.
func (ev *Events) Clear() error {
	if err := ev.TrackPlayers(ev.Tracked()...); err != nil {
		return err
	}
	return ev.conn.Send(proto.Format(proto.CmdEventsClear))
}

// Poll returns the events since the previous poll: player moves first, in
// tracking order, then block hits.
func (ev *Events) Poll() ([]Event, error) {
	var events []Event

	ev.mu.Lock()
	order := append([]int(nil), ev.order...)
	tracked := make(map[int]vector.Vector, len(ev.tracked))
	for id, pos := range ev.tracked {
		tracked[id] = pos
	}
	idle := ev.includeIdle
	ev.mu.Unlock()

	for _, id := range order {
		old := tracked[id]
		pos, err := ev.playerPos(id)
		if err != nil {
			return nil, err
		}
		if !pos.Equal(old) {
			events = append(events, PlayerPosEvent{Old: old, New: pos, Player: id})
		}
		tracked[id] = pos
	}
	ev.mu.Lock()
	for id, pos := range tracked {
		if _, ok := ev.tracked[id]; ok {
			ev.tracked[id] = pos
		}
	}
	ev.mu.Unlock()

	s, err := ev.conn.Transact(proto.Format(proto.CmdBlockHits))
	if err != nil {
		return nil, err
	}
	hits, err := proto.ParseBlockHits(s)
	if err != nil {
		return nil, err
	}
	for _, h := range hits {
		events = append(events, BlockHitEvent{h})
	}

	if len(events) == 0 && idle {
		events = append(events, IdleEvent{})
	}
	return events, nil
}

func (ev *Events) playerPos(id int) (vector.Vector, error) {
	p := &Player{conn: ev.conn, id: id}
	pos, err := p.Pos()
	if err != nil {
		return vector.Vector{}, err
	}
	return pos.Round(1), nil
}

func (ev *Events) on(match func(Event) bool, flags Flag, action func(Event)) {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	ev.handlers = append(ev.handlers, &handler{
		match:  match,
		action: action,
		flags:  flags,
		wg:     &ev.wg,
	})
}

func (ev *Events) OnBlockHit(f BlockHitFilter, flags Flag, fn func(BlockHitEvent)) {
	ev.on(func(e Event) bool {
		h, ok := e.(BlockHitEvent)
		return ok && f.match(h)
	}, flags, func(e Event) { fn(e.(BlockHitEvent)) })
}

func (ev *Events) OnPlayerPos(f PlayerPosFilter, flags Flag, fn func(PlayerPosEvent)) {
	ev.on(func(e Event) bool {
		p, ok := e.(PlayerPosEvent)
		return ok && f.match(p)
	}, flags, func(e Event) { fn(e.(PlayerPosEvent)) })
}

// OnIdle registers fn for IdleEvents, which only occur with SetIncludeIdle.
func (ev *Events) OnIdle(flags Flag, fn func(IdleEvent)) {
	ev.on(func(e Event) bool {
		_, ok := e.(IdleEvent)
		return ok
	}, flags, func(e Event) { fn(e.(IdleEvent)) })
}

// Process polls once and hands every event to each matching handler.
func (ev *Events) Process() error {
	events, err := ev.Poll()
	if err != nil {
		return err
	}
	ev.mu.Lock()
	handlers := append([]*handler(nil), ev.handlers...)
	ev.mu.Unlock()
	for _, e := range events {
		for _, h := range handlers {
			if h.match(e) {
				h.execute(e)
			}
		}
	}
	return nil
}

// MainLoop processes events until ctx is done or the connection closes,
// both of which end it cleanly. It waits for running async handlers
// before returning.
func (ev *Events) MainLoop(ctx context.Context) error {
	ev.conn.debugf("entering event loop")
	defer ev.wg.Wait()
	for {
		if err := ev.Process(); err != nil {
			if errors.Is(err, ErrConnectionClosed) {
				ev.conn.debugf("connection closed, leaving event loop")
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(ev.PollGap()):
		}
	}
}
