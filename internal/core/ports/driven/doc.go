// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the storage engine, the remote document
// source, the question-generation service, and the config store.
package driven
