// Package crypto holds the hashing used for job identifiers.
//
// Fingerprint gives every bus payload a short, stable BLAKE2b digest so all
// log lines of one print job can be grouped, and a repeated publish of the
// same payload is recognisable in the logs.
package crypto
