// Package plot renders extracted spectra as SVG line plots.
//
// The y axis shows log10 of the absorption value; points whose value is not
// positive have no logarithm and are left out of the line. Axis titles follow
// the calculated quantity:
//
//	ACS  Absorption Cross-Section [cm^2 mol^-1]
//	VAC  Volume Absorption Coefficient [km^-1]
package plot
