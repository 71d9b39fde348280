// Package app wires the daemon's dependencies.
//
// Config is built once at startup from defaults, an optional YAML file, an
// optional .env file and the process environment. Wire turns it into the
// concrete printer opener, renderer, job service and bus clients that the
// commands run.
package app
