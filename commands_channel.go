package main

import (
	"strconv"
	"strings"

	"github.com/horgh/irc"
)

// cmdJoin implements JOIN, including the comma-separated multi-channel
// form and the "JOIN 0" part-all-channels shorthand (spec.md §4.3).
func cmdJoin(s *Server, c *Client, m irc.Message) {
	if !needParams(s, c, m, 1) {
		return
	}

	if m.Params[0] == "0" {
		for _, ch := range c.allChannelsCopy() {
			leaveChannel(s, c, ch, "")
		}
		return
	}

	for _, name := range strings.Split(m.Params[0], ",") {
		if len(name) == 0 {
			continue
		}
		if !isValidChannelName(name) {
			s.sendNumeric(c, errErroneusChanname, name, "Illegal channel name")
			continue
		}

		ch, created := s.getOrCreateChannel(name, s.clock())
		if ch.hasMember(c) {
			continue
		}

		modes := ""
		if created {
			modes = "o"
		}
		ch.addMember(c, modes)
		c.channels[canonicalizeChannel(ch.name)] = ch

		s.broadcastChannel(ch, userOrigin(c, "JOIN", ch.name), nil)

		if ch.topicSetAt != 0 {
			s.sendNumeric(c, rplTopic, ch.name, ch.topic)
			s.sendNumeric(c, rplTopicWhoTime, ch.name, ch.topicAuthor, strconv.FormatInt(ch.topicSetAt, 10))
		}

		sendNames(s, c, ch)

		if created {
			s.deliver(c, irc.Message{
				Prefix:  s.config.Hostname,
				Command: "MODE",
				Params:  []string{ch.name, "+" + ch.modes},
			})
			s.deliver(c, irc.Message{
				Prefix:  s.config.Hostname,
				Command: "MODE",
				Params:  []string{ch.name, "+o", c.nickname},
			})
		}
	}
}

// cmdPart implements PART, including the comma-separated multi-channel
// form and an optional part reason.
func cmdPart(s *Server, c *Client, m irc.Message) {
	if !needParams(s, c, m, 1) {
		return
	}

	reason := ""
	if len(m.Params) > 1 {
		reason = m.Params[1]
	}

	for _, name := range strings.Split(m.Params[0], ",") {
		ch, exists := s.findChannel(name)
		if !exists || !ch.hasMember(c) {
			s.sendNumeric(c, errNotOnChannel, name, "You're not on that channel")
			continue
		}
		leaveChannel(s, c, ch, reason)
	}
}

// leaveChannel removes c from ch, telling every member (including c
// itself) exactly once, then garbage-collects the channel if it's now
// empty.
func leaveChannel(s *Server, c *Client, ch *Channel, reason string) {
	params := []string{ch.name}
	if len(reason) > 0 {
		params = append(params, reason)
	}
	s.broadcastChannel(ch, userOrigin(c, "PART", params...), nil)

	ch.removeMember(c)
	delete(c.channels, canonicalizeChannel(ch.name))
	s.dropChannelIfEmpty(ch)
}

// cmdNames implements NAMES: with no argument, every channel; otherwise
// the comma-separated list given.
func cmdNames(s *Server, c *Client, m irc.Message) {
	if len(m.Params) == 0 {
		for _, ch := range s.allChannels() {
			sendNames(s, c, ch)
		}
		return
	}
	for _, name := range strings.Split(m.Params[0], ",") {
		if ch, exists := s.findChannel(name); exists {
			sendNames(s, c, ch)
		}
	}
}

// sendNames sends the NAMES listing for one channel: an @ prefix for
// operators, + for voice, then RPL_ENDOFNAMES.
func sendNames(s *Server, c *Client, ch *Channel) {
	names := make([]string, 0, len(ch.members))
	for _, member := range ch.members {
		names = append(names, ch.namePrefix(member)+member.nickname)
	}
	s.sendNumeric(c, rplNamReply, "=", ch.name, strings.Join(names, " "))
	s.sendNumeric(c, rplEndOfNames, ch.name, "End of NAMES list")
}

// cmdTopic implements both the query and set forms.
func cmdTopic(s *Server, c *Client, m irc.Message) {
	if !needParams(s, c, m, 1) {
		return
	}

	ch, exists := s.findChannel(m.Params[0])
	if !exists || !ch.hasMember(c) {
		s.sendNumeric(c, errNotOnChannel, m.Params[0], "You're not on that channel")
		return
	}

	if len(m.Params) < 2 {
		if len(ch.topic) == 0 {
			s.sendNumeric(c, rplNoTopic, ch.name, "No topic is set")
			return
		}
		s.sendNumeric(c, rplTopic, ch.name, ch.topic)
		s.sendNumeric(c, rplTopicWhoTime, ch.name, ch.topicAuthor, strconv.FormatInt(ch.topicSetAt, 10))
		return
	}

	if ch.hasMode('t') && !ch.isOperator(c) {
		s.sendNumeric(c, errChanOpPrivsNeeded, ch.name, "You're not channel operator")
		return
	}

	topic := m.Params[1]
	if len(topic) > maxTopicLength {
		topic = topic[:maxTopicLength]
	}
	ch.topic = topic
	ch.topicAuthor = c.fullname()
	ch.topicSetAt = s.clock()

	s.broadcastChannel(ch, userOrigin(c, "TOPIC", ch.name, topic), nil)
}

// cmdMode implements the three MODE shapes the spec names: a bare query,
// a channel-wide toggle, and a per-user target toggle.
func cmdMode(s *Server, c *Client, m irc.Message) {
	if !needParams(s, c, m, 1) {
		return
	}

	target := m.Params[0]
	if !strings.HasPrefix(target, "#") {
		userModeCommand(s, c, m)
		return
	}

	ch, exists := s.findChannel(target)
	if !exists {
		s.sendNumeric(c, errNoSuchChannel, target, "No such channel")
		return
	}

	if len(m.Params) < 2 {
		s.sendNumeric(c, rplChannelModeIs, ch.name, "+"+ch.modes)
		s.sendNumeric(c, rplChannelCreated, ch.name, strconv.FormatInt(ch.createdAt, 10))
		return
	}

	modeString := m.Params[1]
	modeArgs := m.Params[2:]

	if looksLikeUserModeTarget(modeString) {
		channelUserModeCommand(s, c, ch, modeString, modeArgs)
		return
	}

	if !ch.isOperator(c) {
		s.sendNumeric(c, errChanOpPrivsNeeded, ch.name, "You're not channel operator")
		return
	}

	added, removed := ch.applyChannelModes(modeString)
	if len(added) == 0 && len(removed) == 0 {
		return
	}

	params := []string{ch.name}
	frame := ""
	if len(added) > 0 {
		frame += "+" + added
	}
	if len(removed) > 0 {
		frame += "-" + removed
	}
	params = append(params, frame)
	s.broadcastChannel(ch, userOrigin(c, "MODE", params...), nil)
}

// looksLikeUserModeTarget reports whether a channel MODE's second
// argument addresses a member (+o/+v) rather than a channel-wide flag
// (n/t/m): member targeting always supplies a nickname argument.
func looksLikeUserModeTarget(modeString string) bool {
	for i := 0; i < len(modeString); i++ {
		ch := modeString[i]
		if ch == '+' || ch == '-' {
			continue
		}
		if strings.IndexByte(userModeLetters, ch) != -1 {
			return true
		}
		if strings.IndexByte(channelModeLetters, ch) != -1 {
			return false
		}
	}
	return false
}

func channelUserModeCommand(s *Server, c *Client, ch *Channel, modeString string, modeArgs []string) {
	if !ch.isOperator(c) {
		s.sendNumeric(c, errChanOpPrivsNeeded, ch.name, "You're not channel operator")
		return
	}

	action := byte('+')
	argIdx := 0
	var added, removed []string

	for i := 0; i < len(modeString); i++ {
		letter := modeString[i]
		if letter == '+' || letter == '-' {
			action = letter
			continue
		}
		if strings.IndexByte(userModeLetters, letter) == -1 {
			continue
		}
		if argIdx >= len(modeArgs) {
			break
		}
		nick := modeArgs[argIdx]
		argIdx++

		target, exists := s.findUser(nick)
		if !exists || !ch.hasMember(target) {
			continue
		}

		modes := ch.userModes[target]
		has := strings.ContainsRune(modes, rune(letter))
		if action == '+' && !has {
			ch.userModes[target] = modes + string(letter)
			added = append(added, string(letter)+" "+target.nickname)
		} else if action == '-' && has {
			ch.userModes[target] = strings.Replace(modes, string(letter), "", 1)
			removed = append(removed, string(letter)+" "+target.nickname)
		}
	}

	if len(added) == 0 && len(removed) == 0 {
		return
	}

	var letters strings.Builder
	var names []string
	if len(added) > 0 {
		letters.WriteByte('+')
		for _, a := range added {
			parts := strings.SplitN(a, " ", 2)
			letters.WriteString(parts[0])
			names = append(names, parts[1])
		}
	}
	if len(removed) > 0 {
		letters.WriteByte('-')
		for _, r := range removed {
			parts := strings.SplitN(r, " ", 2)
			letters.WriteString(parts[0])
			names = append(names, parts[1])
		}
	}

	params := append([]string{ch.name, letters.String()}, names...)
	s.broadcastChannel(ch, userOrigin(c, "MODE", params...), nil)
}

// cmdKick implements KICK: not part of catbox's own command set, written
// fresh in the idiom of its other membership-changing handlers
// (see SPEC_FULL.md §4.3).
func cmdKick(s *Server, c *Client, m irc.Message) {
	if !needParams(s, c, m, 2) {
		return
	}

	ch, exists := s.findChannel(m.Params[0])
	if !exists || !ch.hasMember(c) {
		s.sendNumeric(c, errNoSuchNick, m.Params[0], "No such nick/channel")
		return
	}
	if !ch.isOperator(c) {
		s.sendNumeric(c, errChanOpPrivsNeeded, ch.name, "You're not channel operator")
		return
	}

	target, exists := s.findUser(m.Params[1])
	if !exists || !ch.hasMember(target) {
		s.sendNumeric(c, errNoSuchNick, m.Params[1], "No such nick/channel")
		return
	}

	reason := c.nickname
	if len(m.Params) > 2 {
		reason = m.Params[2]
	}

	s.broadcastChannel(ch, userOrigin(c, "KICK", ch.name, target.nickname, reason), nil)

	ch.removeMember(target)
	delete(target.channels, canonicalizeChannel(ch.name))
	s.dropChannelIfEmpty(ch)
}

// cmdList implements LIST: also absent from catbox's own command set,
// written fresh to match its numeric-reply style.
func cmdList(s *Server, c *Client, m irc.Message) {
	s.sendNumeric(c, rplListStart, "Channel", "Users Name")

	var targets []*Channel
	if len(m.Params) > 0 {
		for _, name := range strings.Split(m.Params[0], ",") {
			if ch, exists := s.findChannel(name); exists {
				targets = append(targets, ch)
			}
		}
	} else {
		targets = s.allChannels()
	}

	for _, ch := range targets {
		s.sendNumeric(c, rplList, ch.name, strconv.Itoa(len(ch.members)), ch.topic)
	}

	s.sendNumeric(c, rplListEnd, "End of LIST")
}
