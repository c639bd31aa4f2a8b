package main

import (
	"errors"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/yamux"
)

type Server struct {
	clientid int32
	sessions sync.Map // map[id]*Session
	service  *WorldService
	journal  *Journal
	flavor   string
	mux      bool

	playerCallback func(string, int)
}

// NewServer serves service over the line protocol. journal may be nil.
func NewServer(cfg Config, service *WorldService, journal *Journal) *Server {
	s := &Server{
		service: service,
		journal: journal,
		flavor:  cfg.Flavor,
		mux:     cfg.Mux,
	}
	s.SetPlayerCallback(service.onPlayerCallback)
	return s
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	if !s.mux {
		s.serveSession(conn)
		return
	}

	sess, err := yamux.Server(conn, nil)
	if err != nil {
		log.Print(err)
		return
	}
	defer sess.Close()
	var wg sync.WaitGroup
	for {
		stream, err := sess.Accept()
		if err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.serveSession(stream)
		}()
	}
	wg.Wait()
}

// serveSession allocates an entity for conn and runs its command loop.
func (s *Server) serveSession(conn net.Conn) {
	id := int(atomic.AddInt32(&s.clientid, 1))
	log.Printf("allocated %d for %s", id, conn.RemoteAddr())

	session := NewSession(id, conn, s)
	s.sessions.Store(id, session)
	s.playerCallback("online", id)
	session.Serve()
	s.sessions.Delete(id)
	s.playerCallback("offline", id)
	log.Printf("%s(%d) closed connection", conn.RemoteAddr(), id)
}

func (s *Server) RangeSession(f func(id int, sess *Session)) {
	s.sessions.Range(func(k, v interface{}) bool {
		f(k.(int), v.(*Session))
		return true
	})
}

func (s *Server) SetPlayerCallback(callback func(string, int)) {
	s.playerCallback = callback
}

const maxAcceptDelay = time.Second

// Serve accepts connections until l is closed. Other accept errors are
// retried after a delay that doubles up to maxAcceptDelay.
func (s *Server) Serve(l net.Listener) error {
	var delay time.Duration
	for {
		conn, err := l.Accept()
		if errors.Is(err, net.ErrClosed) {
			return nil
		}
		if err != nil {
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else if delay *= 2; delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			log.Printf("accept error: %v; retrying in %v", err, delay)
			time.Sleep(delay)
			continue
		}
		delay = 0
		go s.handleConn(conn)
	}
}

// Close ends every session.
func (s *Server) Close() {
	s.RangeSession(func(id int, sess *Session) {
		sess.Close()
	})
}
