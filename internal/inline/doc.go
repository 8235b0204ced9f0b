// Package inline turns a block's raw text into styled runs and links.
//
// Parsing happens in three passes. SplitLinks separates [label](url) spans
// from the surrounding text. Tokenize splits each text fragment (and each
// link label) into plain, strong, italic and code runs. Merge then joins
// neighbouring runs that share a style. Parse runs all three.
//
// Styles never nest. An opening marker without a matching closer is kept
// as literal plain text, so no input is ever rejected or dropped.
package inline
