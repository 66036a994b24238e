// Package app wires stores, the native boundary, the dispatch bridge
// and the services into one dependency graph for the CLI and the
// rotation daemon.
package app
