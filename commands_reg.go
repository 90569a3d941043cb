package main

import (
	"strconv"
	"strings"

	"github.com/horgh/irc"
)

// cmdPing answers a client-originated liveness check. PONG's reply shape
// is the one place the protocol departs from the usual "target-nick"
// server reply (spec.md §4.3): the two params are the server's own
// hostname and the client's token, never the client's nick.
func cmdPing(s *Server, c *Client, m irc.Message) {
	if len(m.Params) == 0 || len(m.Params[0]) == 0 {
		s.sendNumeric(c, errNeedMoreParams, m.Command, "Not enough parameters")
		return
	}
	s.deliver(c, irc.Message{
		Prefix:  s.config.Hostname,
		Command: "PONG",
		Params:  []string{s.config.Hostname, m.Params[0]},
	})
}

// cmdPong is a no-op: handleMessage already bumped lastActivity before
// dispatch ever saw this message.
func cmdPong(s *Server, c *Client, m irc.Message) {}

// cmdNick implements the NICK contract: validate, enforce uniqueness
// case-insensitively, then announce the change to the client itself and to
// every peer sharing a channel with it (each once), and run the welcome
// sequence if this completes registration (spec.md §4.3).
func cmdNick(s *Server, c *Client, m irc.Message) {
	if len(m.Params) == 0 || len(m.Params[0]) == 0 {
		s.sendNumeric(c, errNoNicknameGiven, "No nickname given")
		return
	}

	nick := m.Params[0]
	if !isValidNick(nick) {
		s.sendNumeric(c, errErroneusNickname, nick, "Erroneous nickname")
		return
	}

	canon := canonicalizeNick(nick)
	if existing, exists := s.nicks[canon]; exists && existing != c {
		s.sendNumeric(c, errNicknameInUse, nick, "Nickname is already in use")
		return
	}

	wasRegistered := c.registered()
	oldOrigin := c.fullname()
	oldNick := c.nickname

	if oldNick != "*" {
		delete(s.nicks, canonicalizeNick(oldNick))
	}
	c.nickname = nick
	s.nicks[canon] = c

	observers := map[*Client]struct{}{c: {}}
	for _, ch := range c.channels {
		for _, member := range ch.members {
			observers[member] = struct{}{}
		}
	}
	changeMsg := irc.Message{Prefix: oldOrigin, Command: "NICK", Params: []string{nick}}
	for observer := range observers {
		s.deliver(observer, changeMsg)
	}

	if !wasRegistered && c.registered() {
		s.sendWelcome(c)
	}
}

// cmdUser implements the USER contract: username, unused transport/server
// fields, and a trailing real name. Completing it while NICK has already
// succeeded triggers the welcome sequence.
func cmdUser(s *Server, c *Client, m irc.Message) {
	if c.username != "unknown" {
		s.sendNumeric(c, errAlreadyRegistered, "Unauthorized command (already registered)")
		return
	}
	if !needParams(s, c, m, 4) {
		return
	}

	username := m.Params[0]
	if len(username) == 0 {
		username = "unknown"
	}
	realname := m.Params[3]
	if len(realname) > maxRealNameLength {
		realname = realname[:maxRealNameLength]
	}

	c.username = username
	c.realname = realname

	if c.registered() {
		s.sendWelcome(c)
	}
}

// sendWelcome sends the registration numerics (spec.md §4.3's welcome
// sequence), followed by the MOTD.
func (s *Server) sendWelcome(c *Client) {
	s.sendNumeric(c, rplWelcome,
		"Welcome to the Internet Relay Network "+c.fullname())
	s.sendNumeric(c, rplYourHost,
		"Your host is "+s.config.Hostname+", running version embers-ircd-1.0")
	s.sendNumeric(c, rplCreated,
		"This server was created "+s.config.Created)
	s.sendNumeric(c, rplMyInfo, s.config.Hostname, "embers-ircd-1.0", userModeLetters, channelModeLetters)
	s.sendNumeric(c, rplISupport,
		"CHANTYPES=#", "PREFIX=(ov)@+", "CHANMODES=b,,,"+channelModeLetters,
		"NICKLEN="+strconv.Itoa(maxNickLength), "CHANNELLEN="+strconv.Itoa(maxChannelLength),
		"TOPICLEN="+strconv.Itoa(maxTopicLength), "AWAYLEN="+strconv.Itoa(maxAwayLength),
		"NETWORK="+s.config.Network, "are supported by this server")

	cmdMotd(s, c, irc.Message{Command: "MOTD"})
}

// cmdMotd sends the message of the day. An empty configured MOTD still
// produces a well formed (but line-less) start/end pair.
func cmdMotd(s *Server, c *Client, m irc.Message) {
	s.sendNumeric(c, rplMotdStart, "- "+s.config.Hostname+" Message of the day - ")
	if len(s.config.MOTD) > 0 {
		for _, line := range strings.Split(s.config.MOTD, "\n") {
			s.sendNumeric(c, rplMotd, "- "+line)
		}
	}
	s.sendNumeric(c, rplEndOfMotd, "End of MOTD command")
}

func cmdVersion(s *Server, c *Client, m irc.Message) {
	s.sendNumeric(c, rplVersion, "embers-ircd-1.0", s.config.Hostname, "")
}
