// Package marshal decodes the record stream written by 'p4 -G': a
// sequence of Python marshal-encoded dictionaries with string keys.
//
// Only the value types p4 emits, plus the reference and interning forms
// newer marshal versions use for them, are supported.
package marshal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Type codes.
const (
	typeNull         = '0'
	typeNone         = 'N'
	typeFalse        = 'F'
	typeTrue         = 'T'
	typeInt          = 'i'
	typeInt64        = 'I'
	typeString       = 's'
	typeInterned     = 't'
	typeStringRef    = 'R'
	typeUnicode      = 'u'
	typeASCII        = 'a'
	typeASCIIIntern  = 'A'
	typeShortASCII   = 'z'
	typeShortInterns = 'Z'
	typeRef          = 'r'
	typeTuple        = '('
	typeSmallTuple   = ')'
	typeList         = '['
	typeDict         = '{'

	flagRef = 0x80
)

// ErrUnsupportedType is returned for a type code this decoder does not
// handle.
var ErrUnsupportedType = errors.New("unsupported marshal type")

// Reader reads dictionaries from a p4 -G stream.
type Reader struct {
	r        *bufio.Reader
	refs     []any
	interned []string
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next dictionary, or io.EOF at the end of the stream.
func (d *Reader) Next() (map[string]any, error) {
	if _, err := d.r.Peek(1); err == io.EOF {
		return nil, io.EOF
	}
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("marshal: expected dictionary, got %T", v)
	}
	return m, nil
}

func (d *Reader) value() (any, error) {
	code, err := d.r.ReadByte()
	if err != nil {
		return nil, unexpected(err)
	}
	ref := code&flagRef != 0
	code &^= flagRef

	// Containers are registered before their contents so that nested
	// back-references resolve.
	slot := -1
	if ref {
		slot = len(d.refs)
		d.refs = append(d.refs, nil)
	}
	v, err := d.decode(code, slot)
	if err != nil {
		return nil, err
	}
	if slot >= 0 {
		d.refs[slot] = v
	}
	return v, nil
}

func (d *Reader) decode(code byte, slot int) (any, error) {
	switch code {
	case typeNone:
		return nil, nil
	case typeFalse:
		return false, nil
	case typeTrue:
		return true, nil
	case typeInt:
		n, err := d.int32()
		return int64(n), err
	case typeInt64:
		var n int64
		err := binary.Read(d.r, binary.LittleEndian, &n)
		return n, unexpected(err)
	case typeString, typeUnicode, typeASCII:
		return d.str(false)
	case typeInterned, typeASCIIIntern:
		s, err := d.str(false)
		if err == nil {
			d.interned = append(d.interned, s)
		}
		return s, err
	case typeShortASCII:
		return d.str(true)
	case typeShortInterns:
		s, err := d.str(true)
		if err == nil {
			d.interned = append(d.interned, s)
		}
		return s, err
	case typeStringRef:
		i, err := d.int32()
		if err != nil {
			return nil, err
		}
		if i < 0 || int(i) >= len(d.interned) {
			return nil, fmt.Errorf("marshal: bad string reference %d", i)
		}
		return d.interned[i], nil
	case typeRef:
		i, err := d.int32()
		if err != nil {
			return nil, err
		}
		if i < 0 || int(i) >= len(d.refs) {
			return nil, fmt.Errorf("marshal: bad reference %d", i)
		}
		return d.refs[i], nil
	case typeTuple, typeList:
		n, err := d.int32()
		if err != nil {
			return nil, err
		}
		return d.items(int(n))
	case typeSmallTuple:
		n, err := d.r.ReadByte()
		if err != nil {
			return nil, unexpected(err)
		}
		return d.items(int(n))
	case typeDict:
		m := make(map[string]any)
		if slot >= 0 {
			d.refs[slot] = m
		}
		for {
			peek, err := d.r.Peek(1)
			if err != nil {
				return nil, unexpected(err)
			}
			if peek[0] == typeNull {
				_, _ = d.r.ReadByte()
				return m, nil
			}
			k, err := d.value()
			if err != nil {
				return nil, err
			}
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("marshal: dictionary key of type %T", k)
			}
			v, err := d.value()
			if err != nil {
				return nil, err
			}
			m[key] = v
		}
	}
	return nil, fmt.Errorf("marshal: type %q: %w", code, ErrUnsupportedType)
}

func (d *Reader) items(n int) ([]any, error) {
	if n < 0 {
		return nil, fmt.Errorf("marshal: negative length %d", n)
	}
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (d *Reader) int32() (int32, error) {
	var n int32
	err := binary.Read(d.r, binary.LittleEndian, &n)
	return n, unexpected(err)
}

func (d *Reader) str(short bool) (string, error) {
	var n int
	if short {
		b, err := d.r.ReadByte()
		if err != nil {
			return "", unexpected(err)
		}
		n = int(b)
	} else {
		l, err := d.int32()
		if err != nil {
			return "", err
		}
		if l < 0 {
			return "", fmt.Errorf("marshal: negative length %d", l)
		}
		n = int(l)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", unexpected(err)
	}
	return string(buf), nil
}

// unexpected turns EOF inside a value into io.ErrUnexpectedEOF.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
