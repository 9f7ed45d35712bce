// Package main hosts the stl2scc CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, builds the logger and the
// history ledger, and hands files to internal/convert. Commands own file I/O
// only: reading STL input, writing SCC output, and rendering tables.
package main
