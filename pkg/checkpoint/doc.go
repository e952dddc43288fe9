// Package checkpoint persists the list of candidates a run has not finished yet.
//
// After each candidate the scraper overwrites the checkpoint with the suffix
// of the candidate list that follows it, one JSON object per line, in the
// same format as the input list. A later run started with --resume reads
// the checkpoint instead of the full list.
//
// Writes are atomic: the list is written to a temporary file, synced and
// renamed over the previous checkpoint.
package checkpoint
