// Package bus connects the daemon to the MQTT broker.
//
// Subscriber owns the connection, the single subscription and the event loop
// that hands each publish to a domain.MessageHandler, strictly one at a time.
// Paho delivers messages on its own goroutine; they are bridged into a
// buffered channel so the loop stays the only consumer. The bridge never
// blocks: Paho processes keep-alive responses on the same path, so a blocked
// callback during a long print would get the connection dropped. When the
// inbox is full the publish is dropped and counted, which at-most-once
// delivery permits.
//
// Connectivity failures (connect, subscribe, lost connection) end Run with an
// error wrapping domain.ErrConnectivity. There is no local reconnect; the
// process supervisor restarts the daemon. Handler errors are logged and the
// loop continues.
//
// Publisher sends receipt payloads, used by the publish command to exercise
// the whole path from another host.
package bus
