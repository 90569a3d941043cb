package main

import (
	"fmt"
	"strings"

	"github.com/horgh/irc"
)

func cmdPrivmsg(s *Server, c *Client, m irc.Message) {
	sendMessage(s, c, m, false)
}

func cmdNotice(s *Server, c *Client, m irc.Message) {
	sendMessage(s, c, m, true)
}

// sendMessage implements both PRIVMSG and NOTICE (spec.md §4.3). Strict
// IRC convention has NOTICE never generate an error reply, but this
// server mirrors the original source's behavior of replying with the
// same error numerics for both commands.
func sendMessage(s *Server, c *Client, m irc.Message, isNotice bool) {
	if len(m.Params) == 0 || len(m.Params[0]) == 0 {
		s.sendNumeric(c, errNoRecipient, fmt.Sprintf("No recipient given (%s)", m.Command))
		return
	}
	if len(m.Params) < 2 || len(m.Params[1]) == 0 {
		s.sendNumeric(c, errNoTextToSend, "No text to send")
		return
	}

	target := m.Params[0]
	text := m.Params[1]

	if strings.HasPrefix(target, "#") {
		sendChannelMessage(s, c, m.Command, target, text, isNotice)
		return
	}

	tc, exists := s.findUser(target)
	if !exists {
		s.sendNumeric(c, errNoSuchNick, target, "No such nick/channel")
		return
	}

	s.deliver(tc, userOrigin(c, m.Command, target, text))

	if !isNotice && tc.isAway() {
		s.sendNumeric(c, rplAway, target, *tc.awayText)
	}
}

func sendChannelMessage(s *Server, c *Client, cmd, target, text string, isNotice bool) {
	ch, exists := s.findChannel(target)
	if !exists {
		s.sendNumeric(c, errNoSuchNick, target, "No such nick/channel")
		return
	}

	member := ch.hasMember(c)
	if !member && ch.hasMode('n') {
		s.sendNumeric(c, errCannotSendToChan, target, "Cannot send to channel")
		return
	}
	if ch.hasMode('m') && (!member || (!ch.isOperator(c) && !ch.isVoiced(c))) {
		s.sendNumeric(c, errCannotSendToChan, target, "Cannot send to channel")
		return
	}

	s.broadcastChannel(ch, userOrigin(c, cmd, target, text), c)
}
