package main

import "time"

// Protocol limits. Named the way catbox names its own (maxChannelLength,
// maxTopicLength), extended to cover the rest of the fields this spec
// bounds.
const (
	maxNickLength    = 16
	maxChannelLength = 50
	maxTopicLength   = 300
	maxAwayLength    = 160
	maxRealNameLength = 64

	// maxRecvBacklog is the cap, in bytes, on a connection's unparsed recv
	// backlog. Exceeding it is Excess Flood.
	maxRecvBacklog = 1024

	// maxReadChunk is how much we try to read off the socket per Read(2).
	maxReadChunk = 4096

	// maxOutboxBytes is the cap on a connection's queued-but-unsent output.
	// The protocol source this spec is drawn from has no such cap; we add
	// one (flagged as an open question in spec.md §5) rather than let a
	// stuck client grow memory without bound.
	maxOutboxBytes = 65536

	// pingIdleAfter is how long a connection may be idle before
	// we send it a PING.
	pingIdleAfter = 125 * time.Second

	// deadAfter is how long a connection may be idle before we drop it.
	deadAfter = 250 * time.Second

	// tickInterval drives the liveness sweep. It replaces the spec's manual
	// 25s readiness-wait budget now that blocking I/O lives in per-connection
	// goroutines rather than a single select() loop; see SPEC_FULL.md §4.4.
	tickInterval = 1 * time.Second

	// maxConnsPerIP is the concurrent-connection cap per source address.
	maxConnsPerIP = 3

	// listenBacklog is the minimum accept backlog the listener relies on. It
	// is not passed to net.Listen, which uses the platform default; see
	// listen().
	listenBacklog = 5
)

// channelModeLetters are the channel-wide mode letters this server
// understands: n (no external messages), t (topic settable by ops only),
// m (moderated).
const channelModeLetters = "ntm"

// userModeLetters are the per-membership mode letters this server
// understands: o (channel operator), v (voice).
const userModeLetters = "ov"
