package main

import "strings"

// Channel holds everything to do with a named room. Modeled on catbox's
// Channel (channel.go, user.go's Channels map), extended with the
// usermodes/topic/creation metadata spec.md's data model requires.
type Channel struct {
	// name is the display casing: whatever casing the first JOIN used.
	name string

	// members is ordered by join time, oldest first (invariant 2/3: every
	// member here is also a key of userModes and has this channel in its
	// own channels map).
	members []*Client

	// userModes maps a member to the per-user mode letters it holds, drawn
	// from userModeLetters ("ov").
	userModes map[*Client]string

	// modes holds the channel-wide mode letters in effect, drawn from
	// channelModeLetters ("ntm").
	modes string

	topic       string
	topicAuthor string
	topicSetAt  int64

	createdAt int64
}

func newChannel(name string, now int64) *Channel {
	return &Channel{
		name:      name,
		userModes: make(map[*Client]string),
		modes:     "nt",
		createdAt: now,
	}
}

func canonicalizeChannel(name string) string {
	return strings.ToLower(name)
}

func (c *Channel) hasMember(client *Client) bool {
	_, exists := c.userModes[client]
	return exists
}

func (c *Channel) addMember(client *Client, modes string) {
	c.members = append(c.members, client)
	c.userModes[client] = modes
}

func (c *Channel) removeMember(client *Client) {
	delete(c.userModes, client)
	for i, m := range c.members {
		if m == client {
			c.members = append(c.members[:i], c.members[i+1:]...)
			break
		}
	}
}

func (c *Channel) isEmpty() bool {
	return len(c.members) == 0
}

func (c *Channel) isOperator(client *Client) bool {
	return strings.ContainsRune(c.userModes[client], 'o')
}

func (c *Channel) isVoiced(client *Client) bool {
	return strings.ContainsRune(c.userModes[client], 'v')
}

func (c *Channel) hasMode(letter byte) bool {
	return strings.IndexByte(c.modes, letter) != -1
}

// namePrefix returns the NAMES-listing prefix for a member: @ for an
// operator, + for voice (but not both), else nothing.
func (c *Channel) namePrefix(client *Client) string {
	modes := c.userModes[client]
	if strings.ContainsRune(modes, 'o') {
		return "@"
	}
	if strings.ContainsRune(modes, 'v') {
		return "+"
	}
	return ""
}

// applyChannelModes applies a +/-letter string to the channel's mode set,
// ignoring unknown letters per spec.md's Design Notes ("behavior of MODE
// with unknown mode letters: specify silently ignored"). It returns the
// letters that actually changed, split into added and removed, in the
// order seen, so the caller can build one consistent broadcast frame.
func (c *Channel) applyChannelModes(modeString string) (added, removed string) {
	action := byte('+')
	for i := 0; i < len(modeString); i++ {
		ch := modeString[i]
		if ch == '+' || ch == '-' {
			action = ch
			continue
		}
		if strings.IndexByte(channelModeLetters, ch) == -1 {
			continue
		}
		has := c.hasMode(ch)
		if action == '+' && !has {
			c.modes += string(ch)
			added += string(ch)
		} else if action == '-' && has {
			c.modes = strings.Replace(c.modes, string(ch), "", 1)
			removed += string(ch)
		}
	}
	return added, removed
}
