// Package table provides bounds-checked random access to PT-table files.
//
// A Table is opened for the duration of one extraction and closed at its end:
//
//	t, err := table.Open(path, table.WithFormat(format.Default))
//	if err != nil {
//	    return err // wraps errs.ErrTableNotFound
//	}
//	defer t.Close()
//
//	samples, err := t.ReadRecord(10, nil) // record 10 covers 100-110 cm⁻¹
//
// ReadRecord computes the record's byte offset from its index, rejects offsets
// outside the file with errs.ErrAddressOutOfRange before reading, and reports a
// short read as errs.ErrTruncatedRecord. Samples are decoded little-endian and
// returned untransformed.
//
// Records are read with pread by default. WithMmap serves them from a read-only
// memory mapping instead, and WithSequentialHint tells the kernel to read ahead.
//
// The package also owns the table naming convention (TableName, TablePath) and
// the lookup of the latest run directory (LatestRun).
package table
