// Package listing reads and writes memory images in the Logisim "v2.0 raw"
// text format.
package listing

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const Header = "v2.0 raw"

// ErrFormat is returned by Parse for input that is not a raw image.
var ErrFormat = errors.New("not a v2.0 raw image")

// Format renders image as uppercase hex bytes under the header line. With
// columns <= 0 all bytes go on one line, otherwise a new line starts every
// columns bytes.
func Format(image []byte, columns int) string {
	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteByte('\n')
	for i, b := range image {
		if i > 0 {
			if columns > 0 && i%columns == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

func Write(w io.Writer, image []byte, columns int) error {
	_, err := io.WriteString(w, Format(image, columns))
	return errors.Wrap(err, "writing listing")
}

// Parse reads an image written by Format or by Logisim itself. Besides
// plain hex bytes it accepts "N*XX" runs and '#' comments.
func Parse(r io.Reader) ([]byte, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "reading listing")
		}
		return nil, ErrFormat
	}
	if strings.TrimSpace(sc.Text()) != Header {
		return nil, errors.Wrapf(ErrFormat, "header %q", sc.Text())
	}

	var image []byte
	for num := 2; sc.Scan(); num++ {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, field := range strings.Fields(line) {
			count, hex := uint64(1), field
			if n, v, ok := strings.Cut(field, "*"); ok {
				c, err := strconv.ParseUint(n, 10, 32)
				if err != nil {
					return nil, errors.Wrapf(ErrFormat, "line %d: bad run %q", num, field)
				}
				count, hex = c, v
			}
			b, err := strconv.ParseUint(hex, 16, 8)
			if err != nil {
				return nil, errors.Wrapf(ErrFormat, "line %d: bad byte %q", num, field)
			}
			if uint64(len(image))+count > 1<<16 {
				return nil, errors.Wrapf(ErrFormat, "line %d: image larger than 64K", num)
			}
			for ; count > 0; count-- {
				image = append(image, byte(b))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading listing")
	}
	return image, nil
}
