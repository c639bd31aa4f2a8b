package gocraft

import (
	"net"

	"github.com/hashicorp/yamux"
)

// Mux carries many Connections over a single socket. The server must have
// multiplexing enabled; each stream is an independent session there.
type Mux struct {
	sess *yamux.Session
}

func DialMux(addr string) (*Mux, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	m, err := NewMux(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return m, nil
}

func NewMux(conn net.Conn) (*Mux, error) {
	sess, err := yamux.Client(conn, nil)
	if err != nil {
		return nil, err
	}
	return &Mux{sess: sess}, nil
}

// Open starts a new stream and runs the usual connection probe over it.
func (m *Mux) Open(opts Options) (*Connection, error) {
	stream, err := m.sess.Open()
	if err != nil {
		return nil, err
	}
	c, err := NewConnection(stream, opts)
	if err != nil {
		stream.Close()
		return nil, err
	}
	return c, nil
}

func (m *Mux) NumStreams() int {
	return m.sess.NumStreams()
}

func (m *Mux) Close() error {
	return m.sess.Close()
}
