package main

import (
	"fmt"
	"io"
	"log"
	"net"
	"sync/atomic"
	"time"

	"github.com/horgh/irc"
	"github.com/pkg/errors"
)

// listen opens the TCP listener spec.md §6 describes: one socket at
// (bind_host, bind_port), SO_REUSEADDR, backlog >= 5. Go's net package
// sets SO_REUSEADDR on TCP listeners by default. No backlog value is
// passed explicitly: like catbox, this leaves it to net.Listen's default,
// which already satisfies ">= 5" on every platform Go supports.
func (s *Server) listen() (net.Listener, error) {
	addr := fmt.Sprintf("%s:%s", s.config.ListenHost, s.config.ListenPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to listen on %s", addr)
	}
	_ = listenBacklog
	return ln, nil
}

// serve starts the accept loop, the liveness ticker, and the single owner
// goroutine (run). It blocks until the server is told to stop.
func (s *Server) serve(ln net.Listener) {
	go s.acceptLoop(ln)
	go s.tickerLoop()

	s.run(ln)
}

// acceptLoop blocks on Listener.Accept, handing each new connection a
// pair of read/write goroutines and telling the owner goroutine about it.
// This is catbox's acceptConnections, minus the per-connection
// registration fields catbox's variant needs only for server linking.
func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
				log.Printf("accept error: %s", err)
				continue
			}
		}

		id := s.allocID()
		now := s.clock()
		client := newClient(s, id, newConn(conn), now)

		go s.readLoop(client)
		go s.writeLoop(client)

		s.newConnChan <- client
	}
}

func (s *Server) allocID() uint64 {
	s.nextID++
	return s.nextID
}

// tickerLoop wakes the owner goroutine roughly once a second so it can
// evaluate ping/timeout timers. It replaces the spec's 25s readiness-wait
// budget; see SPEC_FULL.md §4.4 for why a finer interval is needed once
// blocking reads live in their own goroutines instead of a select loop.
func (s *Server) tickerLoop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			select {
			case s.tickChan <- s.clock():
			default:
				// A tick is already pending; skip this one rather than block.
			}
		case <-s.stopChan:
			return
		}
	}
}

// readLoop blocks on the socket, splitting the byte stream into lines per
// spec.md §4.1 (split on LF, strip a trailing CR, discard blank lines)
// and enforcing the recv-backlog cap (§3, §4.4 step 5) before handing
// each complete line to the owner goroutine as a msgEvent.
func (s *Server) readLoop(c *Client) {
	for {
		chunk, err := c.conn.ReadChunk()
		if len(chunk) > 0 {
			c.recvBacklog = append(c.recvBacklog, chunk...)

			for {
				idx := indexByte(c.recvBacklog, '\n')
				if idx == -1 {
					break
				}
				line := c.recvBacklog[:idx]
				c.recvBacklog = c.recvBacklog[idx+1:]

				if len(line) > 0 && line[len(line)-1] == '\r' {
					line = line[:len(line)-1]
				}

				if len(line) == 0 {
					continue
				}

				msg, perr := irc.ParseMessage(string(line) + "\r\n")
				if perr != nil && perr != irc.ErrTruncated {
					// Malformed input. Drop the line; don't tear down the
					// connection over it (mirrors catbox's leniency elsewhere).
					continue
				}

				s.msgChan <- msgEvent{client: c, message: msg}
			}

			if len(c.recvBacklog) > maxRecvBacklog {
				s.deadChan <- quitEvent{client: c, reason: "Excess Flood"}
				return
			}
		}

		if err != nil {
			s.deadChan <- quitEvent{client: c, reason: readErrorReason(err)}
			return
		}
	}
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func readErrorReason(err error) string {
	if err == io.EOF || err == nil {
		return "Remote host closed the connection"
	}
	return fmt.Sprintf("Error: %s", err)
}

// writeLoop drains a client's outbox and writes each frame to the socket.
// It stops at the first write error rather than retrying a broken socket
// for every remaining queued frame; quit() will close the outbox (and the
// socket) once the owner goroutine processes the resulting quitEvent.
func (s *Server) writeLoop(c *Client) {
	for frame := range c.outbox {
		atomic.AddInt64(&c.queuedBytes, -int64(len(frame)))
		if err := c.conn.WriteRaw(frame); err != nil {
			s.deadChan <- quitEvent{client: c, reason: fmt.Sprintf("Write error: %s", err)}
			return
		}
	}
	_ = c.conn.Close()
}

// run is the single owner goroutine: every mutation of server state and
// every handler invocation happens here and nowhere else (SPEC_FULL.md §1,
// §5). It mirrors catbox's ircd.go start() select loop.
func (s *Server) run(ln net.Listener) {
	for {
		select {
		case client := <-s.newConnChan:
			s.handleNewConn(client)

		case ev := <-s.deadChan:
			s.handleDead(ev.client, ev.reason)

		case ev := <-s.msgChan:
			s.handleMessage(ev.client, ev.message)

		case now := <-s.tickChan:
			s.handleTick(now)

		case <-s.stopChan:
			s.shutdown(ln)
			close(s.doneChan)
			return
		}
	}
}

// handleNewConn registers a connection into server state immediately
// (spec.md §3 "Lifecycle"), resolving its hostname through the
// process-wide cache, then enforces the per-IP connection cap.
func (s *Server) handleNewConn(c *Client) {
	s.clients[c] = struct{}{}
	c.hostname = s.resolveHost(c.ip)
	s.connsPerIP[c.ip]++

	if s.connsPerIP[c.ip] > maxConnsPerIP {
		s.quit(c, fmt.Sprintf("Too many connections from %s", c.ip))
	}
}

// handleDead tears a connection down in response to an I/O failure
// reported by its read or write goroutine.
func (s *Server) handleDead(c *Client, reason string) {
	if _, exists := s.clients[c]; !exists {
		return
	}
	s.quit(c, reason)
}

// handleMessage bumps liveness, enforces the registration gate, and
// dispatches to the matching command handler (spec.md §4.3).
func (s *Server) handleMessage(c *Client, m irc.Message) {
	if _, exists := s.clients[c]; !exists {
		return
	}

	c.lastActivity = s.clock()

	s.dispatch(c, m)
}

// handleTick runs the liveness sweep (spec.md §4.4 step 8) and a final
// empty-channel sweep as a backstop (channels are also collected inline
// on every part/kick/quit; see dropChannelIfEmpty call sites).
func (s *Server) handleTick(now int64) {
	for c := range s.clients {
		idle := now - c.lastActivity
		switch {
		case idle > int64(deadAfter.Seconds()):
			s.quit(c, fmt.Sprintf("Ping timeout: %d seconds", idle))
		case idle > int64(pingIdleAfter.Seconds()):
			_ = c.conn.WriteDirect(fmt.Sprintf("PING :%s\r\n", s.config.Hostname))
		}
	}

	for _, ch := range s.allChannels() {
		s.dropChannelIfEmpty(ch)
	}
}

// stop requests a graceful shutdown: every connection is torn down with
// reason "Server shutdown", then the listener is closed (spec.md §6 CLI).
func (s *Server) stop() {
	close(s.stopChan)
	<-s.doneChan
}

func (s *Server) shutdown(ln net.Listener) {
	for c := range s.clients {
		s.quit(c, "Server shutdown")
	}
	_ = ln.Close()
}
