// Package archiver orchestrates the export of a user's photo-bearing
// tweets.
//
// The archiver resolves a username, walks the user's timeline page by page
// (bounded by a configurable tweet cap), joins each page's tweets against
// its included media, and for every tweet with photos creates a
// timestamp-named folder, downloads the images sequentially, and writes a
// tweet.txt metadata record.
//
// The run is strictly sequential and fails fast: the first failed image
// download aborts the whole run, leaving earlier output on disk.
package archiver
