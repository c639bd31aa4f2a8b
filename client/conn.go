package gocraft

import (
	"bufio"
	"errors"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/yamux"

	"github.com/icexin/gocraft-pi/proto"
)

// Flavor is the kind of server at the other end of a Connection.
type Flavor int

const (
	MinecraftPi Flavor = iota
	RaspberryJuice
)

func (f Flavor) String() string {
	if f == RaspberryJuice {
		return "raspberry-juice"
	}
	return "minecraft-pi"
}

const DefaultTimeout = 200 * time.Millisecond

type Options struct {
	// Timeout bounds the wait for a reply. Zero means DefaultTimeout.
	Timeout time.Duration
	// IgnoreErrors skips waiting for a possible Fail after commands that
	// have no reply. Faster, but errors are only noticed later, if at all.
	IgnoreErrors bool
	// Logger receives every line sent and received. Nil disables it.
	Logger *log.Logger
}

// Connection is a line protocol connection to a server. It is safe for
// concurrent use; every exchange holds the connection lock.
type Connection struct {
	mu      sync.Mutex
	conn    net.Conn
	r       *bufio.Reader
	partial string
	opts    Options
	flavor  Flavor
	batch   []string
	closed  bool
}

func Dial(addr string, opts Options) (*Connection, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	c, err := NewConnection(conn, opts)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// NewConnection wraps conn and probes the server with a command it cannot
// know. raspberry-juice answers Fail, minecraft-pi says nothing.
func NewConnection(conn net.Conn, opts Options) (*Connection, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}
	c := &Connection{
		conn: conn,
		r:    bufio.NewReader(conn),
		opts: opts,
	}

	ignore := c.opts.IgnoreErrors
	c.opts.IgnoreErrors = false
	reply, err := c.Transact(proto.Format(proto.Probe))
	c.opts.IgnoreErrors = ignore

	var cerr *CommandError
	switch {
	case errors.As(err, &cerr):
		c.flavor = RaspberryJuice
	case errors.Is(err, ErrNoResponse):
		c.flavor = MinecraftPi
	case err != nil:
		return nil, err
	default:
		return nil, &CommandError{Command: proto.Format(proto.Probe), Reply: reply}
	}
	c.debugf("connected to %s (%v)", conn.RemoteAddr(), c.flavor)
	return c, nil
}

func (c *Connection) ServerVersion() Flavor {
	return c.flavor
}

func (c *Connection) Timeout() time.Duration {
	return c.opts.Timeout
}

// Send transmits cmd, or appends it to the current batch. Outside a batch,
// and unless errors are ignored, it waits up to the timeout for a Fail.
func (c *Connection) Send(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	if c.batch != nil {
		c.batch = append(c.batch, cmd)
		return nil
	}
	if err := c.send(cmd); err != nil {
		return err
	}
	if !c.opts.IgnoreErrors {
		_, err := c.receive(cmd, false)
		return err
	}
	return nil
}

// Transact transmits cmd immediately, bypassing any batch, and returns the
// reply line.
func (c *Connection) Transact(cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ErrConnectionClosed
	}
	if err := c.send(cmd); err != nil {
		return "", err
	}
	return c.receive(cmd, true)
}

func (c *Connection) BatchStart() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.batch != nil {
		return ErrBatchStarted
	}
	c.batch = []string{}
	return nil
}

// BatchSend transmits every queued command in one write and ends the batch.
func (c *Connection) BatchSend() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.batch == nil {
		return ErrBatchNotStarted
	}
	batch := c.batch
	c.batch = nil
	if len(batch) == 0 {
		return nil
	}
	if c.closed {
		return ErrConnectionClosed
	}
	buf := strings.Join(batch, "\n")
	if err := c.send(buf); err != nil {
		return err
	}
	var err error
	if !c.opts.IgnoreErrors {
		_, err = c.receive(buf, false)
	}
	c.drain()
	return err
}

func (c *Connection) BatchForget() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.batch == nil {
		return ErrBatchNotStarted
	}
	c.batch = nil
	return nil
}

// Batch runs fn inside a batch, sending it if fn succeeds and forgetting it
// otherwise.
func (c *Connection) Batch(fn func() error) error {
	if err := c.BatchStart(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		c.BatchForget()
		return err
	}
	return c.BatchSend()
}

// Close forgets any pending batch and closes the underlying connection.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.batch = nil
	return c.conn.Close()
}

func (c *Connection) send(buf string) error {
	if !strings.HasSuffix(buf, "\n") {
		buf += "\n"
	}
	if c.opts.IgnoreErrors {
		c.drain()
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.opts.Timeout * 10))
	if _, err := io.WriteString(c.conn, buf); err != nil {
		return c.fail(err)
	}
	c.debugf(">: %q", buf)
	return nil
}

// receive reads one reply line. A missing reply is only an error when it is
// required and errors are not ignored. Fail is always an error.
func (c *Connection) receive(cmd string, required bool) (string, error) {
	c.conn.SetReadDeadline(time.Now().Add(c.opts.Timeout))
	line, err := c.r.ReadString('\n')
	if err != nil {
		c.partial += line
		if isTimeout(err) {
			if required && !c.opts.IgnoreErrors {
				return "", ErrNoResponse
			}
			return "", nil
		}
		return "", c.fail(err)
	}
	line = strings.TrimRight(c.partial+line, "\r\n")
	c.partial = ""
	c.debugf("<: %q", line)
	if line == proto.Fail {
		return "", &CommandError{Command: cmd}
	}
	return line, nil
}

// drain discards anything the server has already sent, typically Fail
// lines for commands nobody waited on.
func (c *Connection) drain() {
	c.partial = ""
	if n := c.r.Buffered(); n > 0 {
		c.r.Discard(n)
	}
	buf := make([]byte, 1500)
	for {
		c.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
		n, err := c.conn.Read(buf)
		if n > 0 {
			c.debugf("drained %q", buf[:n])
		}
		if err != nil {
			if !isTimeout(err) {
				c.fail(err)
			}
			return
		}
	}
}

var closedErrors = []error{
	io.EOF,
	io.ErrClosedPipe,
	net.ErrClosed,
	yamux.ErrStreamClosed,
	syscall.ECONNRESET,
	syscall.EPIPE,
}

func (c *Connection) fail(err error) error {
	for _, target := range closedErrors {
		if errors.Is(err, target) {
			c.closed = true
			return ErrConnectionClosed
		}
	}
	return err
}

func (c *Connection) debugf(format string, args ...interface{}) {
	if c.opts.Logger != nil {
		c.opts.Logger.Printf(format, args...)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, yamux.ErrTimeout) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
