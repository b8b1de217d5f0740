// Package export writes extracted spectra to files.
//
// Every output kind implements Consumer. A consumer receives the lazy result of
// an extraction together with descriptive Labels and decides on its own how to
// render it; the extraction engine never branches on the output kind.
//
// Consumers write into a temporary file next to the destination and rename it
// into place only after the result reported no error, so a failed extraction
// never leaves a partial file behind.
package export
