package main

import (
	"strconv"
	"strings"

	"github.com/horgh/irc"
)

// userModeCommand is MODE's non-channel branch: a client may only query
// or change its own user modes (spec.md §4.3).
func userModeCommand(s *Server, c *Client, m irc.Message) {
	target, exists := s.findUser(m.Params[0])
	if !exists {
		s.sendNumeric(c, errNoSuchNick, m.Params[0], "No such nick/channel")
		return
	}
	if target != c {
		s.sendNumeric(c, errUsersDontMatch, "Cannot change mode for other users")
		return
	}

	if len(m.Params) < 2 {
		s.sendServer(c, "MODE", "+"+c.modes)
		return
	}

	added, removed := applyUserModes(c, m.Params[1])
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	frame := ""
	if len(added) > 0 {
		frame += "+" + added
	}
	if len(removed) > 0 {
		frame += "-" + removed
	}
	s.deliver(c, userOrigin(c, "MODE", c.nickname, frame))
}

// applyUserModes toggles invisible (i) freely; operator (o) can only be
// cleared through MODE, never set, since there is no OPER command to earn
// it in the first place.
func applyUserModes(c *Client, modeString string) (added, removed string) {
	action := byte('+')
	for i := 0; i < len(modeString); i++ {
		ch := modeString[i]
		if ch == '+' || ch == '-' {
			action = ch
			continue
		}
		switch ch {
		case 'i':
			has := strings.ContainsRune(c.modes, 'i')
			if action == '+' && !has {
				c.modes += "i"
				added += "i"
			} else if action == '-' && has {
				c.modes = strings.Replace(c.modes, "i", "", 1)
				removed += "i"
			}
		case 'o':
			if action == '-' && strings.ContainsRune(c.modes, 'o') {
				c.modes = strings.Replace(c.modes, "o", "", 1)
				removed += "o"
			}
		}
	}
	return added, removed
}

// cmdWhois implements WHOIS: user, channels, server, idle, end.
func cmdWhois(s *Server, c *Client, m irc.Message) {
	if !needParams(s, c, m, 1) {
		return
	}

	target, exists := s.findUser(m.Params[0])
	if !exists {
		s.sendNumeric(c, errNoSuchNick, m.Params[0], "No such nick/channel")
		s.sendNumeric(c, rplEndOfWhois, m.Params[0], "End of WHOIS list")
		return
	}

	s.sendNumeric(c, rplWhoisUser, target.nickname, target.username, target.hostname, "*", target.realname)

	var chans []string
	for _, ch := range target.channels {
		chans = append(chans, ch.namePrefix(target)+ch.name)
	}
	if len(chans) > 0 {
		s.sendNumeric(c, rplWhoisChannels, target.nickname, strings.Join(chans, " "))
	}

	s.sendNumeric(c, rplWhoisServer, target.nickname, s.config.Hostname, s.config.Network)

	if target.isAway() {
		s.sendNumeric(c, rplAway, target.nickname, *target.awayText)
	}

	idle := s.clock() - target.lastActivity
	s.sendNumeric(c, rplWhoisIdle, target.nickname, strconv.FormatInt(idle, 10), strconv.FormatInt(target.signonTime, 10), "seconds idle, signon time")

	s.sendNumeric(c, rplEndOfWhois, target.nickname, "End of WHOIS list")
}

// cmdWho implements WHO for a channel or a single nickname.
func cmdWho(s *Server, c *Client, m irc.Message) {
	if !needParams(s, c, m, 1) {
		return
	}

	mask := m.Params[0]

	if ch, exists := s.findChannel(mask); exists {
		for _, member := range ch.members {
			sendWhoLine(s, c, ch.name, member, ch.namePrefix(member))
		}
		s.sendNumeric(c, rplEndOfWho, mask, "End of WHO list")
		return
	}

	if target, exists := s.findUser(mask); exists {
		sendWhoLine(s, c, "*", target, "")
		s.sendNumeric(c, rplEndOfWho, mask, "End of WHO list")
		return
	}

	s.sendNumeric(c, rplEndOfWho, mask, "End of WHO list")
}

func sendWhoLine(s *Server, c *Client, channel string, target *Client, prefix string) {
	flags := "H" + prefix
	if target.isAway() {
		flags = "G" + prefix
	}
	s.sendNumeric(c, rplWhoReply, channel, target.username, target.hostname, s.config.Hostname,
		target.nickname, flags, "0 "+target.realname)
}

// cmdIson implements ISON: one reply listing whichever of the requested
// nicks are currently connected.
func cmdIson(s *Server, c *Client, m irc.Message) {
	if !needParams(s, c, m, 1) {
		return
	}

	var online []string
	for _, params := range m.Params {
		for _, nick := range strings.Fields(params) {
			if target, exists := s.findUser(nick); exists {
				online = append(online, target.nickname)
			}
		}
	}

	s.sendNumeric(c, rplIsOn, strings.Join(online, " "))
}

// cmdAway implements AWAY: no argument clears it, any argument (truncated
// to maxAwayLength) sets it.
func cmdAway(s *Server, c *Client, m irc.Message) {
	if len(m.Params) == 0 || len(m.Params[0]) == 0 {
		c.awayText = nil
		s.sendNumeric(c, rplUnAway, "You are no longer marked as being away")
		return
	}

	text := m.Params[0]
	if len(text) > maxAwayLength {
		text = text[:maxAwayLength]
	}
	c.awayText = &text
	s.sendNumeric(c, rplNowAway, "You have been marked as being away")
}

// cmdQuit implements QUIT: the client chose to leave, citing its own
// reason (default: its own nickname, matching catbox's behavior when no
// reason is given).
func cmdQuit(s *Server, c *Client, m irc.Message) {
	reason := c.nickname
	if len(m.Params) > 0 && len(m.Params[0]) > 0 {
		reason = m.Params[0]
	}
	s.quit(c, "Quit: "+reason)
}
