// Package services implements the driving ports: sampling, question
// generation and curation, the annotation session view-model, and
// settings. Services depend only on domain types and driven ports;
// adapters are injected at construction.
package services
