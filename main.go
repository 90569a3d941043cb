package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
)

// main wires the external collaborators spec.md §6 names (CLI, config
// file, resolver, clock) into a Server and runs it until interrupted.
// Modeled on catbox's ircd.go main(): log.SetFlags(0), fail fast with
// log.Fatal on startup errors, then block until shutdown.
func main() {
	log.SetFlags(0)

	args, err := getArgs()
	if err != nil {
		log.Fatal(err)
	}

	config, err := loadConfig(args.ConfigFile)
	if err != nil {
		log.Fatal(err)
	}

	server := newServer(config, newDNSResolver(), systemClock)

	ln, err := server.listen()
	if err != nil {
		log.Fatal(err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Printf("Shutting down on signal.")
		server.stop()
	}()

	server.serve(ln)

	log.Printf("Server shutdown cleanly.")
}
