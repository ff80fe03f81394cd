// Package cmd implements the CLI commands for the ai-apps application.
//
// # Architecture
//
//   - root.go: Main entry point, App struct, global flags and infrastructure wiring
//   - init.go: Default config file creation
//   - apps.go: App registry commands (list, show, add, update, enable, disable, remove, url)
//   - call.go: Sending a single request to an app
//   - sync.go: One-off and scheduled sync runs
//   - logs.go: Recent call records
//
// # Key Components
//
// ## App
//
// The App struct holds configuration and the shared infrastructure: the SQL
// store, the async call recorder, the event bus and optional redis publisher,
// the cache and the lock factory. It is set up in PersistentPreRunE and torn
// down after the command returns, draining queued records first.
//
// Every command that talks to a provider builds its own api.Dispatcher with
// newDispatcher, so bindings are never shared between commands or sync targets.
//
// # Usage
//
//	// Main entry point
//	func main() {
//	    cmd.Execute()
//	}
package cmd
