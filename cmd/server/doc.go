// Package main is the entry point for the tabular analytics server.
//
// Configuration comes from environment variables, with CLI flags as
// overrides:
//
//	./server -port 8000
//	./server -dev
//
// SIGINT and SIGTERM trigger graceful shutdown.
package main
