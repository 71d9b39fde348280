// Package domain defines core data models and interfaces shared across the daemon.
// It contains plain types (receipts, bus messages), error kinds and contracts
// (interfaces) only.
package domain
