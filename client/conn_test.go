package gocraft

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icexin/gocraft-pi/proto"
	"github.com/icexin/gocraft-pi/vector"
)

func TestConnection_flavor(t *testing.T) {
	rj := newFakeServer(t, RaspberryJuice)
	assert.Equal(t, RaspberryJuice, dial(t, rj).ServerVersion())

	mp := newFakeServer(t, MinecraftPi)
	c := dial(t, mp)
	assert.Equal(t, MinecraftPi, c.ServerVersion())
	assert.Equal(t, "minecraft-pi", c.ServerVersion().String())
	assert.Equal(t, []string{"foo()"}, mp.commands())
}

func TestConnection_unexpectedProbeReply(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	s.setReply(proto.Probe, "bar")
	_, err := Dial(s.addr(), Options{Timeout: testTimeout})
	var cerr *CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "bar", cerr.Reply)
}

func TestConnection_send(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	c := dial(t, s)

	require.NoError(t, c.Send("world.setBlock(1,2,3,1,0)"))
	err := c.Send("bogus()")
	var cerr *CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "bogus()", cerr.Command)

	reply, err := c.Transact("world.getBlockWithData(1,2,3)")
	require.NoError(t, err)
	assert.Equal(t, "1,0", reply)
}

func TestConnection_noResponse(t *testing.T) {
	s := newFakeServer(t, MinecraftPi)
	c := dial(t, s)

	_, err := c.Transact("bogus()")
	assert.ErrorIs(t, err, ErrNoResponse)
	// minecraft-pi never says Fail, so Send can't see the error
	assert.NoError(t, c.Send("bogus()"))
}

func TestConnection_ignoreErrors(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	c, err := Dial(s.addr(), Options{Timeout: testTimeout, IgnoreErrors: true})
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, RaspberryJuice, c.ServerVersion())

	require.NoError(t, c.Send("bogus()"))
	time.Sleep(testTimeout)
	// the stale Fail is drained before the next command goes out
	reply, err := c.Transact("world.getHeight(0,0)")
	require.NoError(t, err)
	assert.Equal(t, "0", reply)
}

func TestConnection_batch(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	c := dial(t, s)

	require.NoError(t, c.BatchStart())
	assert.ErrorIs(t, c.BatchStart(), ErrBatchStarted)
	require.NoError(t, c.Send("world.setBlock(0,0,0,1,0)"))
	require.NoError(t, c.Send("world.setBlock(0,1,0,2,0)"))

	// transactions bypass the batch
	_, err := c.Transact("world.getHeight(0,0)")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo()", "world.getHeight(0,0)"}, s.commands())

	require.NoError(t, c.BatchSend())
	assert.ErrorIs(t, c.BatchSend(), ErrBatchNotStarted)
	reply, err := c.Transact("world.getHeight(0,0)")
	require.NoError(t, err)
	assert.Equal(t, "1", reply)
	assert.Equal(t, []string{
		"foo()",
		"world.getHeight(0,0)",
		"world.setBlock(0,0,0,1,0)",
		"world.setBlock(0,1,0,2,0)",
		"world.getHeight(0,0)",
	}, s.commands())
}

func TestConnection_batchFail(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	c := dial(t, s)

	err := c.Batch(func() error {
		c.Send("bogus()")
		return c.Send("world.setBlock(5,5,5,1,0)")
	})
	var cerr *CommandError
	assert.True(t, errors.As(err, &cerr))

	blk, err := NewWorld(c).Blocks.Get(vector.New(5, 5, 5))
	require.NoError(t, err)
	assert.Equal(t, Stone, blk)
}

func TestConnection_batchForget(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	c := dial(t, s)

	assert.ErrorIs(t, c.BatchForget(), ErrBatchNotStarted)
	require.NoError(t, c.BatchStart())
	require.NoError(t, c.Send("world.setBlock(0,0,0,1,0)"))
	require.NoError(t, c.BatchForget())

	require.NoError(t, c.BatchStart())
	require.NoError(t, c.BatchSend())
	reply, err := c.Transact("world.getHeight(0,0)")
	require.NoError(t, err)
	assert.Equal(t, "0", reply)
	assert.Equal(t, []string{"foo()", "world.getHeight(0,0)"}, s.commands())
}

func TestConnection_closed(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	c := dial(t, s)
	require.NoError(t, c.BatchStart())
	require.NoError(t, c.Close())
	assert.NoError(t, c.Close())
	assert.ErrorIs(t, c.Send("world.setBlock(0,0,0,1,0)"), ErrConnectionClosed)
	_, err := c.Transact("world.getHeight(0,0)")
	assert.ErrorIs(t, err, ErrConnectionClosed)
	// Close forgot the batch
	assert.ErrorIs(t, c.BatchForget(), ErrBatchNotStarted)

	c = dial(t, s)
	s.close()
	_, err = c.Transact("world.getHeight(0,0)")
	assert.ErrorIs(t, err, ErrConnectionClosed)
}

func TestMux(t *testing.T) {
	s := newFakeServer(t, RaspberryJuice)
	s.setMux()

	m, err := DialMux(s.addr())
	require.NoError(t, err)
	defer m.Close()

	a, err := m.Open(Options{Timeout: testTimeout})
	require.NoError(t, err)
	b, err := m.Open(Options{Timeout: testTimeout})
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumStreams())
	assert.Equal(t, RaspberryJuice, a.ServerVersion())

	require.NoError(t, a.Send("world.setBlock(0,0,0,1,0)"))
	reply, err := b.Transact("world.getBlockWithData(0,0,0)")
	require.NoError(t, err)
	assert.Equal(t, "1,0", reply)

	require.NoError(t, a.Close())
	_, err = a.Transact("world.getHeight(0,0)")
	assert.ErrorIs(t, err, ErrConnectionClosed)
	_, err = b.Transact("world.getHeight(0,0)")
	assert.NoError(t, err)
}
