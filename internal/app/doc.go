// Package app contains the core application logic. It defines the App
// struct, which owns the logger, the resolved settings and the network
// clients for one process run, and exposes one method per function
// lifecycle operation, decoupled from the command-line front end.
package app
