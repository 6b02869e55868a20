// Package driving provides interfaces for use-case entry points (primary/inbound ports).
// These are the operations the CLI and MCP adapters drive.
package driving
