package main

import "testing"

func TestCanonicalizeNick(t *testing.T) {
	tests := []struct {
		input  string
		output string
	}{
		{"ABC", "abc"},
		{"abc", "abc"},
		{"Abc", "abc"},
		{"a12", "a12"},
		{"A12", "a12"},
	}

	for _, test := range tests {
		out := canonicalizeNick(test.input)
		if out != test.output {
			t.Errorf("canonicalizeNick(%s) = %s, wanted %s", test.input, out, test.output)
		}
	}
}

func TestIsValidNick(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"alice", true},
		{"Alice_99", true},
		{"[alice]", true},
		{"", false},
		{"this-nick-is-way-too-long-to-be-valid", false},
		{"has space", false},
		{"has,comma", false},
	}

	for _, test := range tests {
		got := isValidNick(test.input)
		if got != test.valid {
			t.Errorf("isValidNick(%q) = %v, wanted %v", test.input, got, test.valid)
		}
	}
}

func TestIsValidChannelName(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"#dev", true},
		{"#a", true},
		{"dev", false},
		{"", false},
		{"#has space", false},
		{"#has,comma", false},
	}

	for _, test := range tests {
		got := isValidChannelName(test.input)
		if got != test.valid {
			t.Errorf("isValidChannelName(%q) = %v, wanted %v", test.input, got, test.valid)
		}
	}
}

func TestClientRegistered(t *testing.T) {
	c := newClient(nil, 1, &Conn{}, 0)
	if c.registered() {
		t.Fatalf("new client reported registered")
	}

	c.nickname = "alice"
	if c.registered() {
		t.Fatalf("client with only a nick reported registered")
	}

	c.username = "alice"
	if !c.registered() {
		t.Fatalf("client with nick and user reported not registered")
	}
}

func TestClientQueueRespectsOutboxCap(t *testing.T) {
	c := newClient(nil, 1, &Conn{}, 0)

	big := make([]byte, maxOutboxBytes+1)
	for i := range big {
		big[i] = 'x'
	}

	if c.queue(string(big)) {
		t.Fatalf("queue accepted a frame larger than the outbox cap")
	}
}
