// Package services implements the core use cases: building the topic
// store from a corpus, semantic search, chain assembly, compliance
// validation and catalog access. Services depend only on driven ports
// and domain types; adapters stay outside.
package services
