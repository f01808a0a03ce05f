package codepage

import (
	"bytes"
	"io"

	"github.com/axgle/mahonia"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// charmapCodepage adapts one of the single-byte charmap tables.
type charmapCodepage struct {
	name string
	cm   *charmap.Charmap
}

func (c *charmapCodepage) Name() string {
	return c.name
}

func (c *charmapCodepage) Decode(in []byte) ([]byte, error) {
	r := transform.NewReader(bytes.NewReader(in), c.cm.NewDecoder())
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", c.name)
	}
	return out, nil
}

func (c *charmapCodepage) Encode(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, c.cm.NewEncoder())
	if _, err := w.Write(in); err != nil {
		return nil, errors.Wrapf(err, "encode %s", c.name)
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrapf(err, "encode %s", c.name)
	}
	return buf.Bytes(), nil
}

// mahoniaCodepage adapts a multi-byte charset the charmap tables cannot
// express (GBK, Big5 and friends).
type mahoniaCodepage struct {
	name string
	dec  mahonia.Decoder
	enc  mahonia.Encoder
}

func (m *mahoniaCodepage) Name() string {
	return m.name
}

func (m *mahoniaCodepage) Decode(in []byte) ([]byte, error) {
	return []byte(m.dec.ConvertString(string(in))), nil
}

func (m *mahoniaCodepage) Encode(in []byte) ([]byte, error) {
	return []byte(m.enc.ConvertString(string(in))), nil
}

func newMahonia(name string) (Codepage, error) {
	dec := mahonia.NewDecoder(name)
	enc := mahonia.NewEncoder(name)
	if dec == nil || enc == nil {
		return nil, errors.Wrapf(ErrUnknownCharset, "%q", name)
	}
	return &mahoniaCodepage{name: name, dec: dec, enc: enc}, nil
}
