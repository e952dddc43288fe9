// Package storage maintains the deduplicated set of collected tweet identifiers.
//
// The set lives in a single JSON array file. Merge reads the file (a missing
// file counts as empty), adds the new identifiers and rewrites the array in
// sorted order through a temporary file and rename.
//
// Usage:
//
//	store := storage.NewManager("data/tweets/all_tweet_ids.json", log)
//	res, err := store.Merge(ids)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Added, res.Total)
package storage
