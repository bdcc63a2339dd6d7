// Package basel defines the closed regulatory enumerations shared by the
// capital engine: approaches, exposure types, rating buckets, jurisdictions
// and collateral types. Metadata (labels, regime, method) is resolved by
// pure lookup functions so the tables can never be mutated at runtime.
package basel
