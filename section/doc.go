// Package section converts wavenumber intervals into record addresses.
//
// A request [left, right) is served by the records
//
//	floor(left / W) ... floor((right - 1) / W)
//
// where W is the record span of the table format. Each record index r is then
// turned into the byte offset the record is stored at:
//
//	OneBased:  (r - 1) × RecordSize
//	ZeroBased:  r      × RecordSize
//
// Nothing in this package touches the file. Bounds against the physical table
// are checked by the table package.
package section
