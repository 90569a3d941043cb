package main

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Client holds state about a single client connection: the spec's
// "Connection (User)". Modeled on catbox's Client/LocalClient/User trio,
// collapsed into one type because this spec has no remote/server-linked
// users to distinguish (that distinction exists in catbox only to support
// the TS6 server-linking Non-goal).
type Client struct {
	id uint64

	conn *Conn

	ip       string
	port     int
	hostname string

	// nickname is "*" until NICK succeeds; username is "unknown" until USER
	// succeeds. A Client is registered iff neither holds its initial value
	// (spec.md §3).
	nickname string
	username string
	realname string

	lastActivity int64
	signonTime   int64

	// awayText is nil when not away (spec.md: "either unset... or a
	// non-empty reason string").
	awayText *string

	// modes holds this client's global user-mode letters (i invisible, o
	// operator). +o can only be removed through MODE, never granted; this
	// server has no OPER command, so every connection starts without it
	// (spec.md Non-goal: "oper privileges beyond MODE gating").
	modes string

	// channels is canonical-name -> Channel, mirroring Channel.userModes'
	// use of *Client as a stable map key (Design Note 3: a pointer is a
	// fine stable handle once there's no cross-process identity to track).
	channels map[string]*Channel

	server *Server

	// outbox carries fully encoded CRLF frames to this client's writeLoop.
	// Sends are non-blocking (see queue()); queuedBytes tracks how much is
	// outstanding so we can enforce maxOutboxBytes independently of the
	// channel's message-count capacity.
	outbox      chan string
	queuedBytes int64

	// recvBacklog accumulates bytes read off the socket that don't yet form
	// a complete line. It belongs exclusively to this client's readLoop
	// goroutine.
	recvBacklog []byte

	// quitSent guards against queuing to outbox after it has been closed.
	quitSent bool
}

func newClient(server *Server, id uint64, conn *Conn, now int64) *Client {
	return &Client{
		id:           id,
		conn:         conn,
		ip:           conn.RemoteIP(),
		port:         conn.RemotePort(),
		nickname:     "*",
		username:     "unknown",
		channels:     make(map[string]*Channel),
		server:       server,
		outbox:       make(chan string, 4096),
		lastActivity: now,
		signonTime:   now,
	}
}

func (c *Client) String() string {
	return fmt.Sprintf("%d %s!%s@%s", c.id, c.nickname, c.username, c.hostname)
}

// registered reports whether connection registration (NICK + USER) has
// completed, per spec.md §3's invariant.
func (c *Client) registered() bool {
	return c.nickname != "*" && c.username != "unknown"
}

// displayNick is the nick to address replies to: the real nick once set,
// "*" otherwise.
func (c *Client) displayNick() string {
	return c.nickname
}

// fullname is the nick!user@host origin used on peer-attributed frames.
func (c *Client) fullname() string {
	return fmt.Sprintf("%s!%s@%s", c.nickname, c.username, c.hostname)
}

func (c *Client) isAway() bool {
	return c.awayText != nil
}

// queue non-blockingly enqueues an already-encoded frame for delivery.
// Mirrors catbox's Client.maybeQueueMessage/SendQueueExceeded: if the
// outbox would exceed maxOutboxBytes we don't block the server goroutine,
// we flag it and the caller tears the connection down.
func (c *Client) queue(frame string) bool {
	if c.quitSent {
		return true
	}

	if atomic.LoadInt64(&c.queuedBytes)+int64(len(frame)) > maxOutboxBytes {
		return false
	}

	select {
	case c.outbox <- frame:
		atomic.AddInt64(&c.queuedBytes, int64(len(frame)))
		return true
	default:
		return false
	}
}

// closeOutbox closes the outbox channel exactly once so writeLoop can
// drain and exit. Safe to call multiple times.
func (c *Client) closeOutbox() {
	if c.quitSent {
		return
	}
	c.quitSent = true
	close(c.outbox)
}

func (c *Client) onChannel(channel *Channel) bool {
	_, exists := c.channels[canonicalizeChannel(channel.name)]
	return exists
}

// allChannelsCopy snapshots the channels c currently belongs to, so a
// caller can safely mutate c.channels while iterating (used by "JOIN 0").
func (c *Client) allChannelsCopy() []*Channel {
	chans := make([]*Channel, 0, len(c.channels))
	for _, ch := range c.channels {
		chans = append(chans, ch)
	}
	return chans
}

func canonicalizeNick(nick string) string {
	return strings.ToLower(nick)
}

// isValidNick validates a candidate nickname per spec.md §4.3: non-empty
// after trim, characters limited to the RFC 2812 special set plus
// alphanumerics, length <= maxNickLength.
func isValidNick(nick string) bool {
	nick = strings.TrimSpace(nick)
	if len(nick) == 0 || len(nick) > maxNickLength {
		return false
	}

	for _, ch := range nick {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9':
		case strings.ContainsRune("`^-_[]{}|\\", ch):
		default:
			return false
		}
	}
	return true
}

// isValidChannelName validates a candidate channel name per spec.md
// §4.3's JOIN contract: starts with #, length <= maxChannelLength, no
// control characters, space, or comma.
func isValidChannelName(name string) bool {
	if len(name) == 0 || len(name) > maxChannelLength {
		return false
	}
	if name[0] != '#' {
		return false
	}
	for i := 1; i < len(name); i++ {
		ch := name[i]
		if ch < 0x21 || ch == ',' || ch == 0x7f {
			return false
		}
	}
	return true
}
