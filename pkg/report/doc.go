/*
Package report turns a value snapshot into the end-of-run stock report.

Values are stored as free text. Typed interpretation happens only here:
Quantity items are parsed as numbers and compared against their minimum,
YesNo items are matched against the scarce marker, Pack items are listed
but never flagged. Malformed numbers are not errors; they are simply not
flagged.
*/
package report
