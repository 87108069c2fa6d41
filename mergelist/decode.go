package mergelist

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/segmerge/engine"
	"github.com/hupe1980/segmerge/model"
)

const maxLineSize = 64 << 20

// Decode adds the objects of a mergelist to s. Loaded objects are
// selected and their categories registered. On error s is left exactly as
// it was and the returned error wraps ErrCorruptMergelist.
func Decode(r io.Reader, s *engine.Store) error {
	lines, err := readLines(r)
	if err != nil {
		return err
	}

	return s.Update(func(tx *engine.Store) error {
		for i := 0; i < len(lines); i += 4 {
			if allBlank(lines[i:]) {
				break
			}
			if err := decodeObject(tx, lines, i); err != nil {
				return err
			}
		}
		return nil
	})
}

func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func allBlank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

type header struct {
	id         uint64
	todo       bool
	immutable  bool
	subobjects []uint64
}

func decodeObject(tx *engine.Store, lines []string, start int) error {
	if start+3 >= len(lines) {
		missing := [...]string{"location", "category", "comment"}[len(lines)-start-1]
		return corrupt(len(lines)+1, "missing "+missing+" line", nil)
	}

	h, err := parseHeader(lines[start], start+1)
	if err != nil {
		return err
	}

	loc, color, hasColor, err := parseLocation(lines[start+1], start+2)
	if err != nil {
		return err
	}

	obj, err := tx.CreateObject(loc, h.subobjects,
		engine.WithObjectID(h.id),
		engine.WithTodo(h.todo),
		engine.WithImmutable(h.immutable),
	)
	if err != nil {
		return corrupt(start+1, "cannot create object", err)
	}

	tx.SelectObject(obj.Index())
	tx.ChangeCategory(obj.Index(), lines[start+2])
	tx.ChangeComment(obj.Index(), lines[start+3])
	if hasColor {
		tx.ChangeColor(obj.Index(), color)
	}

	return nil
}

func parseHeader(line string, lineNo int) (header, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return header{}, corrupt(lineNo, "expected id, todo, immutable and at least one subobject", nil)
	}

	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return header{}, corrupt(lineNo, "object id", err)
	}

	todo, err := parseFlag(fields[1])
	if err != nil {
		return header{}, corrupt(lineNo, "todo flag", err)
	}

	immutable, err := parseFlag(fields[2])
	if err != nil {
		return header{}, corrupt(lineNo, "immutable flag", err)
	}

	subobjects := make([]uint64, 0, len(fields)-3)
	for _, f := range fields[3:] {
		sub, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return header{}, corrupt(lineNo, "subobject id", err)
		}
		subobjects = append(subobjects, sub)
	}

	return header{id: id, todo: todo, immutable: immutable, subobjects: subobjects}, nil
}

func parseFlag(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, strconv.ErrSyntax
	}
}

func parseLocation(line string, lineNo int) (model.Coordinate, model.RGB, bool, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 && len(fields) != 6 {
		return model.Coordinate{}, model.RGB{}, false, corrupt(lineNo, "expected 3 coordinates and an optional color", nil)
	}

	var xyz [3]int
	for i := range xyz {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return model.Coordinate{}, model.RGB{}, false, corrupt(lineNo, "coordinate", err)
		}
		xyz[i] = v
	}
	loc := model.Coordinate{X: xyz[0], Y: xyz[1], Z: xyz[2]}

	if len(fields) == 3 {
		return loc, model.RGB{}, false, nil
	}

	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.ParseUint(fields[3+i], 10, 8)
		if err != nil {
			return model.Coordinate{}, model.RGB{}, false, corrupt(lineNo, "color component", err)
		}
		rgb[i] = uint8(v)
	}

	return loc, model.RGB{R: rgb[0], G: rgb[1], B: rgb[2]}, true, nil
}
