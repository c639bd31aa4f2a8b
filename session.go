package main

import (
	"bufio"
	"errors"
	"io"
	"log"
	"net"
	"strings"
	"time"

	"github.com/icexin/gocraft-pi/proto"
)

// Session is one command stream, owning one entity.
type Session struct {
	id     int
	conn   net.Conn
	server *Server
}

func NewSession(id int, conn net.Conn, server *Server) *Session {
	return &Session{
		id:     id,
		conn:   conn,
		server: server,
	}
}

// Serve runs commands until the peer goes away. Failures answer Fail on a
// raspberry-juice server and nothing on a minecraft-pi one.
func (s *Session) Serve() {
	r := bufio.NewReader(s.conn)
	w := bufio.NewWriter(s.conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				log.Printf("session %d: %v", s.id, err)
			}
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		rep, err := s.server.service.Exec(s.id, line)
		s.record(line, rep, err)
		switch {
		case err != nil && s.server.flavor == FlavorJuice:
			w.WriteString(proto.Fail + "\n")
		case err != nil:
			log.Printf("session %d: %s: %v", s.id, line, err)
		case rep.Ok:
			w.WriteString(rep.Line + "\n")
		}
		// batches arrive as many lines in one write; reply once drained
		if r.Buffered() == 0 {
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func (s *Session) record(line string, rep Reply, err error) {
	if s.server.journal == nil {
		return
	}
	e := JournalEntry{
		Time:    time.Now(),
		Session: s.id,
		Line:    line,
		Reply:   rep.Line,
	}
	if err != nil {
		e.Error = err.Error()
	}
	if err := s.server.journal.Write(e); err != nil {
		log.Printf("journal: %v", err)
	}
}

func (s *Session) Close() {
	s.conn.Close()
}
