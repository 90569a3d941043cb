package main

import (
	"log"

	"github.com/horgh/irc"
)

// handlerFunc is one command's implementation. Modeled on catbox's
// per-command methods (nickCommand, userCommand, ...) but collected into a
// table per Design Note 1 ("use a static mapping from uppercase command
// word to handler") instead of catbox's big if-chain in handleMessage.
type handlerFunc func(s *Server, c *Client, m irc.Message)

// commands is the dispatch table. Built once at init.
var commands = map[string]handlerFunc{
	"PING":    cmdPing,
	"PONG":    cmdPong,
	"NICK":    cmdNick,
	"USER":    cmdUser,
	"MOTD":    cmdMotd,
	"VERSION": cmdVersion,
	"PRIVMSG": cmdPrivmsg,
	"NOTICE":  cmdNotice,
	"JOIN":    cmdJoin,
	"PART":    cmdPart,
	"NAMES":   cmdNames,
	"TOPIC":   cmdTopic,
	"MODE":    cmdMode,
	"WHOIS":   cmdWhois,
	"WHO":     cmdWho,
	"KICK":    cmdKick,
	"LIST":    cmdList,
	"ISON":    cmdIson,
	"AWAY":    cmdAway,
	"QUIT":    cmdQuit,
}

// preRegistrationCommands may be used before registration completes
// (spec.md §3).
var preRegistrationCommands = map[string]bool{
	"PING": true,
	"PONG": true,
	"NICK": true,
	"USER": true,
	"QUIT": true,
}

// dispatch enforces the registration gate and unknown-command numeric,
// then calls the matching handler under a panic guard so one handler's
// bug only tears down the one connection (spec.md §7).
func (s *Server) dispatch(c *Client, m irc.Message) {
	if len(m.Command) == 0 {
		return
	}

	handler, exists := commands[m.Command]
	if !exists {
		s.sendNumeric(c, errUnknownCommand, m.Command, "Unknown command")
		return
	}

	if !c.registered() && !preRegistrationCommands[m.Command] {
		s.sendNumeric(c, errNotRegistered, "You have not registered")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered from panic handling %s from %s: %v", m.Command, c, r)
			s.quit(c, "Internal error")
		}
	}()

	handler(s, c, m)
}

// sendNumeric delivers a numeric reply to c.
func (s *Server) sendNumeric(c *Client, numeric string, params ...string) {
	s.deliver(c, s.numericReply(c, numeric, params...))
}

// sendServer delivers a non-numeric server-originated reply to c.
func (s *Server) sendServer(c *Client, cmd string, params ...string) {
	s.deliver(c, s.serverReply(c, cmd, params...))
}

// needParams replies 461 and returns false if m has fewer than n params.
func needParams(s *Server, c *Client, m irc.Message, n int) bool {
	if len(m.Params) < n {
		s.sendNumeric(c, errNeedMoreParams, m.Command, "Not enough parameters")
		return false
	}
	return true
}
