// Package driving provides interfaces for inbound adapters
// (primary ports). The CLI talks to the core exclusively through
// these interfaces.
package driving
