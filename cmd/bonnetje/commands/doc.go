// Package commands defines the bonnetje CLI and wires dependencies for subcommands.
//
// Commands
//
//   - run      Subscribe to the receipt topic and print every message (default)
//   - print    Print one receipt locally, without the broker
//   - publish  Publish a receipt to the broker for the daemon to print
//
// # Implementation
//
// Each command loads the Config (YAML file, .env, environment), builds the
// process logger and the dependency graph, then runs against the command's
// context. Execute cancels that context on SIGINT/SIGTERM; the daemon
// finishes the receipt it is printing and exits cleanly.
package commands
