// Package model defines the artifacts produced by document extraction.
//
// Every extractor, whatever the source format, reports its results with
// these types, and both storage backends consume them:
//
//   - text is a plain string, newline-joined in source order
//   - [Page] carries the text of one page or slide with its 1-based number
//   - [Image] holds an embedded media payload and its extension hint
//   - [Link] describes one hyperlink relationship and where it was found
//   - [Table] is a grid of trimmed cell text, row by row
//
// # Kinds
//
// [Kind] is the closed tag that storage uses to route artifacts. The
// relational label of [KindTable] is "data_table" rather than "table" so
// that databases written by earlier releases stay readable:
//
//	model.KindTable.String() // "table"
//	model.KindTable.Label()  // "data_table"
package model
