// Package job runs the print pipeline for one bus message.
//
// Handle interprets the payload, opens a fresh printer session, renders the
// slip and closes the session. Every failure is returned to the caller after
// being logged with the job fingerprint, topic and a truncated payload; none
// of them is fatal to the daemon.
package job
