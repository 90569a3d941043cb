package main

import (
	"io/ioutil"
	"os"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	f, err := ioutil.TempFile("", "ircd-config-*.conf")
	if err != nil {
		t.Fatalf("unable to create temp config: %s", err)
	}
	if _, err := f.WriteString(body); err != nil {
		t.Fatalf("unable to write temp config: %s", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("unable to close temp config: %s", err)
	}
	return f.Name()
}

func TestLoadConfigValid(t *testing.T) {
	path := writeTempConfig(t, ""+
		"listen-host = 127.0.0.1\n"+
		"listen-port = 6667\n"+
		"hostname = irc.test\n"+
		"network-name = TestNet\n"+
		"created-date = 2026-01-01\n"+
		"motd-file =\n")
	defer os.Remove(path)

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() returned an error: %s", err)
	}

	if config.Hostname != "irc.test" {
		t.Errorf("Hostname = %s, wanted irc.test", config.Hostname)
	}
	if config.ListenPort != "6667" {
		t.Errorf("ListenPort = %s, wanted 6667", config.ListenPort)
	}
	if config.MOTD != "" {
		t.Errorf("MOTD = %q, wanted empty string for an unset motd-file", config.MOTD)
	}
}

func TestLoadConfigMissingKey(t *testing.T) {
	path := writeTempConfig(t, "listen-host = 127.0.0.1\n")
	defer os.Remove(path)

	if _, err := loadConfig(path); err == nil {
		t.Fatalf("loadConfig() with missing required keys should have failed")
	}
}

func TestLoadConfigBadPort(t *testing.T) {
	path := writeTempConfig(t, ""+
		"listen-host = 127.0.0.1\n"+
		"listen-port = not-a-port\n"+
		"hostname = irc.test\n"+
		"network-name = TestNet\n"+
		"created-date = 2026-01-01\n"+
		"motd-file =\n")
	defer os.Remove(path)

	if _, err := loadConfig(path); err == nil {
		t.Fatalf("loadConfig() with an invalid listen-port should have failed")
	}
}
