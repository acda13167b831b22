// Package schema declares the expected types of an application's recorded
// inputs and checks them when a run completes.
//
// Schemas are usually parsed from an application document:
//
//	schema:
//	  name: string
//	  age_check: int
//	  nickname: string?
//
// A trailing '?' marks an input that may be absent, for instance one behind a
// selector scene the user never visited. Slices are written "[string]".
//
// Inputs persisted by a JSON store come back as float64; Int accepts whole
// floats so a resumed run validates the same as a fresh one.
package schema
