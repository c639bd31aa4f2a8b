package gocraft

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icexin/gocraft-pi/proto"
	"github.com/icexin/gocraft-pi/vector"
)

func TestEvents_poll(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	ev := NewWorld(dial(t, s)).Events

	events, err := ev.Poll()
	require.NoError(t, err)
	assert.Empty(t, events)

	ev.SetIncludeIdle(true)
	events, err = ev.Poll()
	require.NoError(t, err)
	assert.Equal(t, []Event{IdleEvent{}}, events)

	require.NoError(t, ev.TrackPlayers(1))
	s.movePlayer(1, vector.NewFloat(2.04, 0, 0.5))
	hit := proto.BlockHit{Pos: vector.New(1, 2, 3), Face: proto.FaceTop, Player: 1}
	s.hit(hit)
	events, err = ev.Poll()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, PlayerPosEvent{
		Old:    vector.NewFloat(0.5, 0, 0.5),
		New:    vector.NewFloat(2, 0, 0.5),
		Player: 1,
	}, events[0])
	assert.Equal(t, BlockHitEvent{hit}, events[1])
	assert.Equal(t, "<BlockHitEvent pos=1,2,3 face=y+ player=1>", events[1].(BlockHitEvent).String())

	// small moves below the rounding don't count
	s.movePlayer(1, vector.NewFloat(2.01, 0, 0.5))
	events, err = ev.Poll()
	require.NoError(t, err)
	assert.Equal(t, []Event{IdleEvent{}}, events)
}

func TestEvents_clear(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	ev := NewWorld(dial(t, s)).Events
	require.NoError(t, ev.TrackPlayers(1))
	assert.Equal(t, []int{1}, ev.Tracked())

	s.hit(proto.BlockHit{Pos: vector.O})
	s.movePlayer(1, vector.NewFloat(5, 5, 5))
	require.NoError(t, ev.Clear())
	events, err := ev.Poll()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEvents_trackingOrder(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	ev := NewWorld(dial(t, s)).Events
	ids := []int{4, 2, 7, 1, 3}
	for _, id := range ids {
		s.movePlayer(id, vector.NewFloat(0, 0, 0))
	}
	require.NoError(t, ev.TrackPlayers(4, 2, 7, 1, 3, 2))
	assert.Equal(t, ids, ev.Tracked())

	for _, id := range ids {
		s.movePlayer(id, vector.NewFloat(float64(id), 0, 0))
	}
	for i := 0; i < 5; i++ {
		events, err := ev.Poll()
		require.NoError(t, err)
		var got []int
		for _, e := range events {
			got = append(got, e.(PlayerPosEvent).Player)
		}
		assert.Equal(t, ids, got)
		for _, id := range ids {
			s.movePlayer(id, vector.NewFloat(float64(id), float64(i+1), 0))
		}
	}
}

func TestEvents_handlers(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	ev := NewWorld(dial(t, s)).Events
	require.NoError(t, ev.TrackPlayers(1))

	box, err := vector.RangeBetween(vector.O, vector.New(2, 2, 2))
	require.NoError(t, err)

	var tops, any []vector.Vector
	ev.OnBlockHit(BlockHitFilter{Pos: box, Faces: []proto.Face{proto.FaceTop}}, 0, func(e BlockHitEvent) {
		tops = append(tops, e.Pos)
	})
	ev.OnBlockHit(BlockHitFilter{}, 0, func(e BlockHitEvent) {
		any = append(any, e.Pos)
	})
	var entered []int
	ev.OnPlayerPos(PlayerPosFilter{New: vector.NewSet(vector.New(2, 0, 0))}, 0, func(e PlayerPosEvent) {
		entered = append(entered, e.Player)
	})
	idle := 0
	ev.OnIdle(0, func(IdleEvent) { idle++ })

	s.hit(proto.BlockHit{Pos: vector.New(1, 1, 1), Face: proto.FaceTop})
	s.hit(proto.BlockHit{Pos: vector.New(1, 1, 1), Face: proto.FaceEast})
	s.hit(proto.BlockHit{Pos: vector.New(5, 5, 5), Face: proto.FaceTop})
	s.movePlayer(1, vector.NewFloat(2.5, 0.2, 0.9))
	require.NoError(t, ev.Process())

	assert.Equal(t, []vector.Vector{vector.New(1, 1, 1)}, tops)
	assert.Len(t, any, 3)
	assert.Equal(t, []int{1}, entered)

	// idle events need opting in
	require.NoError(t, ev.Process())
	assert.Equal(t, 0, idle)
	ev.SetIncludeIdle(true)
	require.NoError(t, ev.Process())
	assert.Equal(t, 1, idle)
}

func TestEvents_async(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	ev := NewWorld(dial(t, s)).Events

	release := make(chan struct{})
	var single, multi int32
	var wg sync.WaitGroup
	wg.Add(1)
	ev.OnBlockHit(BlockHitFilter{}, Async, func(BlockHitEvent) {
		atomic.AddInt32(&single, 1)
		<-release
	})
	ev.OnBlockHit(BlockHitFilter{}, Async|Multi, func(BlockHitEvent) {
		if atomic.AddInt32(&multi, 1) == 2 {
			wg.Done()
		}
		<-release
	})

	s.hit(proto.BlockHit{Pos: vector.O})
	require.NoError(t, ev.Process())
	s.hit(proto.BlockHit{Pos: vector.X})
	require.NoError(t, ev.Process())

	wg.Wait()
	close(release)
	ev.wg.Wait()
	// the second hit arrived while the single handler was busy
	assert.Equal(t, int32(1), atomic.LoadInt32(&single))
	assert.Equal(t, int32(2), atomic.LoadInt32(&multi))
}

func TestEvents_mainLoop(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	w := NewWorld(dial(t, s))
	ev := w.Events
	ev.SetPollGap(time.Millisecond)
	assert.Equal(t, time.Millisecond, ev.PollGap())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ev.OnBlockHit(BlockHitFilter{Pos: vector.NewSet(vector.O)}, 0, func(BlockHitEvent) {
		cancel()
	})
	s.hit(proto.BlockHit{Pos: vector.O})
	assert.NoError(t, ev.MainLoop(ctx))

	// closing the connection also ends the loop without error
	ev.OnBlockHit(BlockHitFilter{Pos: vector.NewSet(vector.X)}, 0, func(BlockHitEvent) {
		w.Close()
	})
	s.hit(proto.BlockHit{Pos: vector.X})
	assert.NoError(t, ev.MainLoop(context.Background()))
}

func TestWorld(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	w, err := Connect(s.addr(), Options{Timeout: testTimeout})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Say("hello\nworld, again\n"))
	assert.Equal(t, []string{"hello", "world, again"}, s.chatLines())

	pos, err := w.Player.Pos()
	require.NoError(t, err)
	assert.Equal(t, vector.NewFloat(0.5, 0, 0.5), pos)
	require.NoError(t, w.Player.SetTilePos(vector.NewFloat(3.7, 1, -0.5)))
	tile, err := w.Player.TilePos()
	require.NoError(t, err)
	assert.Equal(t, vector.New(3, 1, -1), tile)

	ids, err := w.Players.IDs()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids)

	p := w.Players.Get(1)
	require.NoError(t, p.SetPos(vector.NewFloat(1.5, 2, 3.25)))
	pos, err = p.Pos()
	require.NoError(t, err)
	assert.Equal(t, vector.NewFloat(1.5, 2, 3.25), pos)

	all, err := w.Players.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].ID())

	_, err = w.Players.Get(7).Pos()
	var cerr *CommandError
	assert.ErrorAs(t, err, &cerr)
}
