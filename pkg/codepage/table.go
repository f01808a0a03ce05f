package codepage

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// charmaps indexes the single-byte tables by the names this package
// accepts. Multi-byte charsets are absent here; ByName falls through to
// mahonia for those.
var charmaps = map[string]*charmap.Charmap{
	"cp437":  charmap.CodePage437,
	"cp850":  charmap.CodePage850,
	"cp852":  charmap.CodePage852,
	"cp855":  charmap.CodePage855,
	"cp860":  charmap.CodePage860,
	"cp862":  charmap.CodePage862,
	"cp863":  charmap.CodePage863,
	"cp865":  charmap.CodePage865,
	"cp866":  charmap.CodePage866,
	"cp874":  charmap.Windows874,
	"cp1250": charmap.Windows1250,
	"cp1251": charmap.Windows1251,
	"cp1252": charmap.Windows1252,
	"cp1253": charmap.Windows1253,
	"cp1254": charmap.Windows1254,
	"cp1255": charmap.Windows1255,
	"cp1256": charmap.Windows1256,
	"cp1257": charmap.Windows1257,
	"koi8r":  charmap.KOI8R,
	"mac":    charmap.Macintosh,
}

// drivers maps the language driver byte a table header carries to a charset
// name. The set covers the DOS, Windows and East Asian drivers stamped by
// the common dBASE, FoxPro and shapefile tooling.
var drivers = map[byte]string{
	0x01: "cp437",     // DOS USA
	0x02: "cp850",     // DOS multilingual
	0x03: "cp1252",    // Windows ANSI
	0x04: "mac",       // Standard Macintosh
	0x08: "cp865",     // Danish OEM
	0x09: "cp437",     // Dutch OEM
	0x0A: "cp850",     // Dutch OEM II
	0x0B: "cp437",     // Finnish OEM
	0x0D: "cp437",     // French OEM
	0x0E: "cp850",     // French OEM II
	0x0F: "cp437",     // German OEM
	0x10: "cp850",     // German OEM II
	0x13: "shift_jis", // Japanese Shift-JIS
	0x1B: "cp437",     // English OEM (US)
	0x1C: "cp863",     // French OEM (Canada)
	0x1F: "cp852",     // Czech OEM
	0x22: "cp852",     // Hungarian OEM
	0x23: "cp852",     // Polish OEM
	0x24: "cp860",     // Portuguese OEM
	0x26: "cp866",     // Russian OEM
	0x4D: "gbk",       // Chinese PRC (ANSI/OEM)
	0x4F: "big5",      // Chinese Taiwan (ANSI/OEM)
	0x57: "cp1252",    // Current ANSI
	0x58: "cp1252",    // Western European ANSI
	0x59: "cp1252",    // Spanish ANSI
	0x64: "cp852",     // Eastern European MS-DOS
	0x65: "cp866",     // Russian MS-DOS
	0x66: "cp865",     // Nordic MS-DOS
	0x6C: "cp863",     // French Canadian MS-DOS
	0x78: "big5",      // Taiwan Big5
	0x79: "euc-kr",    // Hangul Wansung
	0x7A: "gbk",       // PRC GBK
	0x7B: "shift_jis", // Japanese Shift-JIS (Windows)
	0x7C: "cp874",     // Thai
	0xC8: "cp1250",    // Eastern European Windows
	0xC9: "cp1251",    // Russian Windows
	0xCA: "cp1254",    // Turkish Windows
	0xCB: "cp1253",    // Greek Windows
	0xCC: "cp1257",    // Baltic Windows
}

// canonicalDrivers picks the driver byte to stamp into new table headers
// for a charset name. Several drivers share a charset; these are the ones
// modern tooling writes.
var canonicalDrivers = map[string]byte{
	"cp437":     0x01,
	"cp850":     0x02,
	"cp1252":    0x03,
	"mac":       0x04,
	"shift_jis": 0x7B,
	"cp860":     0x24,
	"cp852":     0x64,
	"cp866":     0x65,
	"cp865":     0x66,
	"cp863":     0x6C,
	"big5":      0x78,
	"euc-kr":    0x79,
	"gbk":       0x7A,
	"cp874":     0x7C,
	"cp1250":    0xC8,
	"cp1251":    0xC9,
	"cp1254":    0xCA,
	"cp1253":    0xCB,
	"cp1257":    0xCC,
}

// ByName resolves a charset name to a Codepage. Names are matched case
// insensitively; anything the single-byte tables do not cover is tried
// against mahonia, so free-form names like "gbk" or "euc-kr" work too.
func ByName(name string) (Codepage, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, errors.Wrap(ErrUnknownCharset, "empty charset name")
	}
	if cm, ok := charmaps[key]; ok {
		return &charmapCodepage{name: key, cm: cm}, nil
	}
	return newMahonia(key)
}

// ByLanguageDriver resolves the language driver byte of a table header.
func ByLanguageDriver(driver byte) (Codepage, error) {
	name, ok := drivers[driver]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDriver, "0x%02X", driver)
	}
	return ByName(name)
}

// DriverFor returns the canonical language driver byte for a charset name,
// or false when no driver is defined for it.
func DriverFor(name string) (byte, bool) {
	driver, ok := canonicalDrivers[strings.ToLower(strings.TrimSpace(name))]
	return driver, ok
}
