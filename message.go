package main

import "github.com/horgh/irc"

// The three reply shapes from spec.md §4.1, built on top of
// github.com/horgh/irc's Message/Encode — the same wire-codec dependency
// catbox vendors.

// serverReply builds a server-originated command reply:
// :<server-host> <cmd> <target-nick> <data...>
func (s *Server) serverReply(target *Client, cmd string, params ...string) irc.Message {
	nick := target.displayNick()
	return irc.Message{
		Prefix:  s.config.Hostname,
		Command: cmd,
		Params:  append([]string{nick}, params...),
	}
}

// numericReply builds a numeric reply, the same shape as serverReply but
// with a 3-digit zero-padded numeric in place of the command word.
func (s *Server) numericReply(target *Client, numeric string, params ...string) irc.Message {
	return s.serverReply(target, numeric, params...)
}

// userOrigin builds a user-originated broadcast:
// :<nick>!<user>@<host> <data...>
func userOrigin(from *Client, cmd string, params ...string) irc.Message {
	return irc.Message{
		Prefix:  from.fullname(),
		Command: cmd,
		Params:  params,
	}
}
