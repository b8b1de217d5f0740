// Package spectrum turns decoded PT-table records into wavenumber/value points.
//
// A record r of a format f holds P samples on an evenly spaced grid that starts
// at r × W:
//
//	wavenumber(k) = r×W + k × stride×W/(P-1)
//
// Reconstruct walks that grid, keeping every stride-th sample. With stride 1
// the last sample of record r lands on (r+1) × W, the wavenumber of the first
// sample of record r+1, so consecutive records share their boundary point.
//
// Decimate and Log10 are the display-side transforms: down-sampling by a
// resolution stride and a log10 that maps non-positive values to -Inf instead
// of failing.
package spectrum
