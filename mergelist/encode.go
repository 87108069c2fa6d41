package mergelist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/segmerge/engine"
)

// Encode writes every object of s in index order.
func Encode(w io.Writer, s *engine.Store) error {
	bw := bufio.NewWriter(w)

	var buf []byte
	for obj := range s.Objects() {
		if strings.ContainsAny(obj.Category(), "\r\n") || strings.ContainsAny(obj.Comment(), "\r\n") {
			return fmt.Errorf("%w: object %d has a line break in category or comment", ErrUnencodable, obj.ID())
		}

		buf = appendObject(buf[:0], obj)
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func appendObject(buf []byte, obj *engine.Object) []byte {
	buf = strconv.AppendUint(buf, obj.ID(), 10)
	buf = append(buf, ' ')
	buf = appendFlag(buf, obj.Todo())
	buf = append(buf, ' ')
	buf = appendFlag(buf, obj.Immutable())
	for _, id := range obj.Subobjects() {
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, id, 10)
	}
	buf = append(buf, '\n')

	loc := obj.Location()
	buf = strconv.AppendInt(buf, int64(loc.X), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(loc.Y), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(loc.Z), 10)
	if c, ok := obj.Color(); ok {
		buf = append(buf, ' ')
		buf = append(buf, c.String()...)
	}
	buf = append(buf, '\n')

	buf = append(buf, obj.Category()...)
	buf = append(buf, '\n')
	buf = append(buf, obj.Comment()...)
	return append(buf, '\n')
}

func appendFlag(buf []byte, v bool) []byte {
	if v {
		return append(buf, '1')
	}
	return append(buf, '0')
}
