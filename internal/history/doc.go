// Package history keeps a SQLite ledger of conversions.
//
// Each CLI invocation gets a run ID; every file it touches is recorded with
// the BLAKE3 digest of its input, the output path, the caption counts and the
// outcome. The batch command uses the ledger to skip inputs whose digest has
// already been converted to the same output.
package history
