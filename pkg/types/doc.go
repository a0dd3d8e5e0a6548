// Package types defines the domain entities, the Store and Collection
// interfaces, the standard errors, and the collaborator interfaces for the
// Semilla storage system.
//
// Semilla keeps a child's investment history in three independently
// versioned layers: financial facts, contextual metadata, and emotional
// narrative content. Everything mutable is versioned as a chain of full
// snapshots; see Versioned and Version.
package types
