package main

import "testing"

func TestChannelMembership(t *testing.T) {
	ch := newChannel("#dev", 1000)
	alice := newClient(nil, 1, &Conn{}, 1000)
	alice.nickname = "alice"

	if ch.hasMember(alice) {
		t.Fatalf("empty channel reports a member")
	}

	ch.addMember(alice, "o")
	if !ch.hasMember(alice) {
		t.Fatalf("addMember did not register membership")
	}
	if !ch.isOperator(alice) {
		t.Fatalf("founding member should hold operator status")
	}
	if ch.namePrefix(alice) != "@" {
		t.Fatalf("namePrefix for operator = %q, wanted @", ch.namePrefix(alice))
	}

	ch.removeMember(alice)
	if ch.hasMember(alice) {
		t.Fatalf("removeMember did not clear membership")
	}
	if !ch.isEmpty() {
		t.Fatalf("channel with no members should report empty")
	}
}

func TestApplyChannelModes(t *testing.T) {
	ch := newChannel("#dev", 1000)

	added, removed := ch.applyChannelModes("+m")
	if added != "m" || removed != "" {
		t.Fatalf("applyChannelModes(+m) = (%q, %q), wanted (m, \"\")", added, removed)
	}
	if !ch.hasMode('m') {
		t.Fatalf("channel should have mode m set")
	}

	added, removed = ch.applyChannelModes("-n+m")
	if added != "" || removed != "n" {
		t.Fatalf("applyChannelModes(-n+m) = (%q, %q), wanted (\"\", n)", added, removed)
	}

	added, removed = ch.applyChannelModes("+z")
	if added != "" || removed != "" {
		t.Fatalf("unknown mode letter should be silently ignored, got (%q, %q)", added, removed)
	}
}
