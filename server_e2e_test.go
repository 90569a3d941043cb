package main

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/horgh/irc"
	"github.com/stretchr/testify/require"
)

// testClient is a minimal raw-TCP test client in the idiom of
// internal/client_test.go's Client: dial, register, then read parsed
// inbound messages one line at a time.
type testClient struct {
	conn net.Conn
	r    *bufio.Reader
}

func dialTestClient(t *testing.T, addr, nick string) *testClient {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err, "dial test server")

	tc := &testClient{conn: conn, r: bufio.NewReader(conn)}

	tc.send(t, irc.Message{Command: "NICK", Params: []string{nick}})
	tc.send(t, irc.Message{Command: "USER", Params: []string{nick, "0", "*", nick}})

	return tc
}

func (tc *testClient) send(t *testing.T, m irc.Message) {
	t.Helper()
	frame, err := m.Encode()
	require.True(t, err == nil || err == irc.ErrTruncated, "encode test message")
	_, err = tc.conn.Write([]byte(frame))
	require.NoError(t, err, "write test message")
}

func (tc *testClient) recv(t *testing.T) irc.Message {
	t.Helper()
	_ = tc.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := tc.r.ReadString('\n')
	require.NoError(t, err, "read from test server")
	m, err := irc.ParseMessage(line)
	require.True(t, err == nil || err == irc.ErrTruncated, "parse test server message")
	return m
}

// recvUntil reads messages until one with the given command arrives,
// giving up after a small bounded number of reads.
func (tc *testClient) recvUntil(t *testing.T, command string) irc.Message {
	t.Helper()
	for i := 0; i < 32; i++ {
		m := tc.recv(t)
		if m.Command == command {
			return m
		}
	}
	t.Fatalf("did not see a %s message from the server", command)
	return irc.Message{}
}

func (tc *testClient) close() {
	_ = tc.conn.Close()
}

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	config := &Config{
		ListenHost: "127.0.0.1",
		ListenPort: "0",
		Hostname:   "irc.test",
		Network:    "TestNet",
		Created:    "2026-01-01",
	}

	server := newServer(config, staticResolver(nil), systemClock)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "listen")

	go server.serve(ln)
	t.Cleanup(server.stop)

	return server, ln.Addr().String()
}

func TestRegistrationWelcome(t *testing.T) {
	_, addr := startTestServer(t)

	client := dialTestClient(t, addr, "alice")
	defer client.close()

	welcome := client.recvUntil(t, rplWelcome)
	require.Equal(t, "alice", welcome.Params[0])
}

func TestDuplicateNickRejected(t *testing.T) {
	_, addr := startTestServer(t)

	alice := dialTestClient(t, addr, "alice")
	defer alice.close()
	alice.recvUntil(t, rplWelcome)

	bob := dialTestClient(t, addr, "alice")
	defer bob.close()

	errLine := bob.recvUntil(t, errNicknameInUse)
	require.Equal(t, "alice", errLine.Params[1])
}

func TestJoinTopicAndCrossDelivery(t *testing.T) {
	_, addr := startTestServer(t)

	alice := dialTestClient(t, addr, "alice")
	defer alice.close()
	alice.recvUntil(t, rplWelcome)

	alice.send(t, irc.Message{Command: "JOIN", Params: []string{"#dev"}})
	alice.recvUntil(t, "JOIN")
	alice.recvUntil(t, rplEndOfNames)

	alice.send(t, irc.Message{Command: "TOPIC", Params: []string{"#dev", "hello world"}})
	topic := alice.recvUntil(t, "TOPIC")
	require.Equal(t, "hello world", topic.Params[1])

	bob := dialTestClient(t, addr, "bob")
	defer bob.close()
	bob.recvUntil(t, rplWelcome)

	bob.send(t, irc.Message{Command: "JOIN", Params: []string{"#dev"}})
	bob.recvUntil(t, rplEndOfNames)

	bob.send(t, irc.Message{Command: "PRIVMSG", Params: []string{"#dev", "hi alice"}})

	msg := alice.recvUntil(t, "PRIVMSG")
	require.Equal(t, "hi alice", msg.Params[1])
}

func TestExternalMessageToNoExternalChannelRejected(t *testing.T) {
	_, addr := startTestServer(t)

	alice := dialTestClient(t, addr, "alice")
	defer alice.close()
	alice.recvUntil(t, rplWelcome)

	alice.send(t, irc.Message{Command: "JOIN", Params: []string{"#dev"}})
	alice.recvUntil(t, rplEndOfNames)

	outsider := dialTestClient(t, addr, "outsider")
	defer outsider.close()
	outsider.recvUntil(t, rplWelcome)

	outsider.send(t, irc.Message{Command: "PRIVMSG", Params: []string{"#dev", "hello"}})

	errLine := outsider.recvUntil(t, errCannotSendToChan)
	require.Equal(t, "#dev", errLine.Params[1])
}

func TestPingPong(t *testing.T) {
	_, addr := startTestServer(t)

	alice := dialTestClient(t, addr, "alice")
	defer alice.close()
	alice.recvUntil(t, rplWelcome)

	alice.send(t, irc.Message{Command: "PING", Params: []string{"token123"}})
	pong := alice.recvUntil(t, "PONG")
	require.Equal(t, []string{"irc.test", "token123"}, pong.Params)
}

func TestQuitFanOutToChannelPeers(t *testing.T) {
	_, addr := startTestServer(t)

	alice := dialTestClient(t, addr, "alice")
	defer alice.close()
	alice.recvUntil(t, rplWelcome)
	alice.send(t, irc.Message{Command: "JOIN", Params: []string{"#dev"}})
	alice.recvUntil(t, rplEndOfNames)

	bob := dialTestClient(t, addr, "bob")
	bob.recvUntil(t, rplWelcome)
	bob.send(t, irc.Message{Command: "JOIN", Params: []string{"#dev"}})
	bob.recvUntil(t, rplEndOfNames)

	bob.send(t, irc.Message{Command: "QUIT", Params: []string{"leaving"}})

	quitMsg := alice.recvUntil(t, "QUIT")
	require.Contains(t, quitMsg.Prefix, "bob!")

	bob.close()
}
