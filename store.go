package main

import "github.com/horgh/irc"

// Server is the authoritative in-memory state store plus the single
// goroutine that owns it (see SPEC_FULL.md §1 "Concurrency realization").
// Modeled on catbox's Server/Catbox type: maps of nick/channel/client,
// keyed canonically, plus the host-resolution cache spec.md §3 calls for.
type Server struct {
	config   *Config
	resolver Resolver
	clock    Clock

	clients    map[*Client]struct{}
	nicks      map[string]*Client
	channels   map[string]*Channel
	hostCache  map[string]string
	connsPerIP map[string]int

	nextID uint64

	newConnChan chan *Client
	deadChan    chan quitEvent
	msgChan     chan msgEvent
	tickChan    chan int64
	stopChan    chan struct{}
	doneChan    chan struct{}
}

// quitEvent carries a disconnecting client and the reason its teardown
// should cite.
type quitEvent struct {
	client *Client
	reason string
}

// msgEvent carries one already-parsed inbound line.
type msgEvent struct {
	client  *Client
	message irc.Message
}

func newServer(config *Config, resolver Resolver, clock Clock) *Server {
	return &Server{
		config:      config,
		resolver:    resolver,
		clock:       clock,
		clients:     make(map[*Client]struct{}),
		nicks:       make(map[string]*Client),
		channels:    make(map[string]*Channel),
		hostCache:   make(map[string]string),
		connsPerIP:  make(map[string]int),
		newConnChan: make(chan *Client, 128),
		deadChan:    make(chan quitEvent, 128),
		msgChan:     make(chan msgEvent, 1024),
		tickChan:    make(chan int64, 1),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// findUser looks up a client by nickname, case-insensitively.
func (s *Server) findUser(nick string) (*Client, bool) {
	c, exists := s.nicks[canonicalizeNick(nick)]
	return c, exists
}

// findChannel looks up a channel by name, case-insensitively.
func (s *Server) findChannel(name string) (*Channel, bool) {
	c, exists := s.channels[canonicalizeChannel(name)]
	return c, exists
}

func (s *Server) allUsers() []*Client {
	users := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		users = append(users, c)
	}
	return users
}

func (s *Server) allChannels() []*Channel {
	chans := make([]*Channel, 0, len(s.channels))
	for _, c := range s.channels {
		chans = append(chans, c)
	}
	return chans
}

// resolveHost resolves an IP to a hostname through the process-wide cache
// spec.md §3 describes ("a process-wide host cache that maps IP->hostname").
func (s *Server) resolveHost(ip string) string {
	if host, exists := s.hostCache[ip]; exists {
		return host
	}
	host := s.resolver(ip)
	s.hostCache[ip] = host
	return host
}

// getOrCreateChannel returns the named channel, creating it (empty, with
// the default modes) if it doesn't exist yet. Returns the channel and
// whether it was just created; the caller adds the founding member.
func (s *Server) getOrCreateChannel(displayName string, now int64) (*Channel, bool) {
	canon := canonicalizeChannel(displayName)
	if ch, exists := s.channels[canon]; exists {
		return ch, false
	}
	ch := newChannel(displayName, now)
	s.channels[canon] = ch
	return ch, true
}

// dropChannelIfEmpty garbage-collects a channel with no members, per
// spec.md invariant 4. Since the server goroutine processes one event at
// a time, doing this immediately after a membership change that could
// empty the channel is equivalent to "at the end of each tick"
// (SPEC_FULL.md §4.4).
func (s *Server) dropChannelIfEmpty(ch *Channel) {
	if ch.isEmpty() {
		delete(s.channels, canonicalizeChannel(ch.name))
	}
}
