// Package semilla carries module-level metadata.
package semilla

// Version is the application version embedded in exports and printed by
// the version command.
const Version = "0.4.0"
