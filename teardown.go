package main

import (
	"fmt"

	"github.com/horgh/irc"
)

// deliver encodes and queues one message to a client, initiating teardown
// if its outbox would overflow (spec.md §5 backpressure / SPEC_FULL.md §5).
// A too-long line comes back from Encode as ErrTruncated alongside a still
// usable truncated frame, per github.com/horgh/irc's Encode doc comment; we
// send that rather than drop it. Only a genuinely unencodable message
// (ErrTruncated's sibling errors) is dropped.
func (s *Server) deliver(c *Client, m irc.Message) {
	frame, err := m.Encode()
	if err != nil && err != irc.ErrTruncated {
		return
	}
	if !c.queue(frame) {
		s.quit(c, "Send queue exceeded")
	}
}

// broadcastChannel delivers m to every member of ch, including the
// sender unless skip names them out.
func (s *Server) broadcastChannel(ch *Channel, m irc.Message, skip *Client) {
	for _, member := range ch.members {
		if member == skip {
			continue
		}
		s.deliver(member, m)
	}
}

// quit runs the teardown procedure from spec.md §4.3: best-effort ERROR
// line, socket close, QUIT fan-out to every channel co-member (each told
// once), membership cleanup, and removal from server state. It is
// idempotent: re-entry on an already-removed client is a no-op, which is
// what lets it be called from a handler, a timer, or an I/O goroutine
// without coordination.
func (s *Server) quit(c *Client, reason string) {
	if _, exists := s.clients[c]; !exists {
		return
	}

	_ = c.conn.WriteDirect(fmt.Sprintf("ERROR :Closing link: (%s) [%s]\r\n", c.fullname(), reason))
	_ = c.conn.Close()

	observers := make(map[*Client]struct{})
	for _, ch := range c.channels {
		for _, member := range ch.members {
			if member == c {
				continue
			}
			observers[member] = struct{}{}
		}
	}

	quitMsg := userOrigin(c, "QUIT", reason)
	for observer := range observers {
		s.deliver(observer, quitMsg)
	}

	for _, ch := range c.channels {
		ch.removeMember(c)
		s.dropChannelIfEmpty(ch)
	}
	c.channels = make(map[string]*Channel)

	if c.nickname != "*" {
		if s.nicks[canonicalizeNick(c.nickname)] == c {
			delete(s.nicks, canonicalizeNick(c.nickname))
		}
	}

	delete(s.clients, c)

	if n := s.connsPerIP[c.ip]; n > 0 {
		if n == 1 {
			delete(s.connsPerIP, c.ip)
		} else {
			s.connsPerIP[c.ip] = n - 1
		}
	}

	c.closeOutbox()
}
