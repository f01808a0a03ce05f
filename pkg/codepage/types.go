// Package codepage translates Character field text between a table's
// on-disk charset and UTF-8. Single-byte codepages ride the charmap tables;
// multi-byte East Asian charsets ride mahonia. Tables name their charset
// either directly ("cp866", "gbk") or through the language driver byte
// stored in the table header.
package codepage

import (
	"errors"

	"github.com/ssargent/xbase/pkg/codec"
)

// Errors reported by codepage lookup.
var (
	ErrUnknownCharset = errors.New("unknown charset")
	ErrUnknownDriver  = errors.New("unknown language driver")
)

// Codepage converts raw field bytes to UTF-8 and back. It satisfies both
// text collaborator interfaces of the codec package, so one value wires
// into a record codec's decode and encode sides.
type Codepage interface {
	codec.TextDecoder
	codec.TextEncoder

	// Name returns the charset name the codepage was resolved from.
	Name() string
}
