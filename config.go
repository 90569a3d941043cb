package main

import (
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/horgh/config"
	"github.com/pkg/errors"
)

// Config holds a server's static configuration. It is an external
// collaborator per spec.md §6: loaded once at startup and never mutated.
type Config struct {
	ListenHost string
	ListenPort string
	Hostname   string
	Network    string
	Created    string
	MOTD       string
}

// requiredConfigKeys are the keys loadConfig insists on, the same way
// catbox's checkAndParseConfig does.
var requiredConfigKeys = []string{
	"listen-host",
	"listen-port",
	"hostname",
	"network-name",
	"created-date",
	"motd-file",
}

// loadConfig reads and validates a configuration file using
// github.com/horgh/config's key=value reader, the same dependency and
// format catbox uses.
func loadConfig(path string) (*Config, error) {
	raw, err := config.ReadStringMap(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read configuration file")
	}

	for _, key := range requiredConfigKeys {
		v, exists := raw[key]
		if !exists {
			return nil, errors.Errorf("missing required configuration key: %s", key)
		}
		if key != "motd-file" && len(v) == 0 {
			return nil, errors.Errorf("configuration value is blank: %s", key)
		}
	}

	if _, err := strconv.ParseUint(raw["listen-port"], 10, 16); err != nil {
		return nil, errors.Wrap(err, "listen-port is not a valid port number")
	}

	motd, err := readMOTD(raw["motd-file"])
	if err != nil {
		return nil, errors.Wrap(err, "unable to read motd-file")
	}

	return &Config{
		ListenHost: raw["listen-host"],
		ListenPort: raw["listen-port"],
		Hostname:   raw["hostname"],
		Network:    raw["network-name"],
		Created:    raw["created-date"],
		MOTD:       motd,
	}, nil
}

// readMOTD loads the message-of-the-day text. A blank path means no MOTD
// file was configured and yields an empty MOTD; cmdMotd then still sends a
// well formed start/end pair with no lines between (spec.md §4.3).
func readMOTD(path string) (string, error) {
	if len(strings.TrimSpace(path)) == 0 {
		return "", nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(data), "\n"), nil
}
