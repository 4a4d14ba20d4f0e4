package roads

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"

	"github.com/paulmach/orb"

	"github.com/azybler/map_instructions/pkg/maneuver"
)

const (
	magicBytes = "MIROADS1"
	version    = uint32(1)
	maxRoads   = 20_000_000
	maxPoints  = 200_000_000
	maxStrings = 50_000_000
)

const (
	flagRoundabout uint8 = 1 << iota
	flagOneway
)

type fileHeader struct {
	Magic      [8]byte
	Version    uint32
	NumRoads   uint32
	NumPoints  uint32
	NumStrings uint32
}

// The four string lists of a road are stored as offset ranges into a shared
// table of string indices.
const numLists = 4

func lists(r *Road) [numLists]*[]string {
	return [numLists]*[]string{&r.Names, &r.Refs, &r.Destinations, &r.DestinationRefs}
}

// table is the columnar on-disk layout.
type table struct {
	wayIDs      []int64
	classes     []uint8
	flags       []uint8
	pointFirst  []uint32 // len NumRoads+1
	lngs, lats  []float64
	listFirst   [numLists][]uint32 // each len NumRoads+1
	listStrings [numLists][]uint32
	strings     []string
}

func flatten(roads []Road) *table {
	t := &table{
		wayIDs:     make([]int64, len(roads)),
		classes:    make([]uint8, len(roads)),
		flags:      make([]uint8, len(roads)),
		pointFirst: make([]uint32, 1, len(roads)+1),
	}
	interned := map[string]uint32{}
	for l := range numLists {
		t.listFirst[l] = make([]uint32, 1, len(roads)+1)
	}

	for i := range roads {
		r := &roads[i]
		t.wayIDs[i] = r.WayID
		t.classes[i] = uint8(r.Classes)
		if r.Roundabout {
			t.flags[i] |= flagRoundabout
		}
		if r.Oneway {
			t.flags[i] |= flagOneway
		}
		for _, p := range r.Geometry {
			t.lngs = append(t.lngs, p.Lon())
			t.lats = append(t.lats, p.Lat())
		}
		t.pointFirst = append(t.pointFirst, uint32(len(t.lngs)))

		for l, list := range lists(r) {
			for _, s := range *list {
				idx, ok := interned[s]
				if !ok {
					idx = uint32(len(t.strings))
					interned[s] = idx
					t.strings = append(t.strings, s)
				}
				t.listStrings[l] = append(t.listStrings[l], idx)
			}
			t.listFirst[l] = append(t.listFirst[l], uint32(len(t.listStrings[l])))
		}
	}
	return t
}

func (t *table) roads() []Road {
	out := make([]Road, len(t.wayIDs))
	for i := range out {
		r := &out[i]
		r.WayID = t.wayIDs[i]
		r.Classes = maneuver.RoadClasses(t.classes[i])
		r.Roundabout = t.flags[i]&flagRoundabout != 0
		r.Oneway = t.flags[i]&flagOneway != 0

		lo, hi := t.pointFirst[i], t.pointFirst[i+1]
		r.Geometry = make(orb.LineString, 0, hi-lo)
		for p := lo; p < hi; p++ {
			r.Geometry = append(r.Geometry, orb.Point{t.lngs[p], t.lats[p]})
		}

		for l, list := range lists(r) {
			lo, hi := t.listFirst[l][i], t.listFirst[l][i+1]
			if lo == hi {
				continue
			}
			*list = make([]string, 0, hi-lo)
			for _, idx := range t.listStrings[l][lo:hi] {
				*list = append(*list, t.strings[idx])
			}
		}
	}
	return out
}

// WriteBinary writes roads to path. The file is written to a temporary name
// and renamed into place, so readers never see a partial file.
func WriteBinary(path string, roads []Road) error {
	if len(roads) > maxRoads {
		return fmt.Errorf("%d roads exceeds limit %d", len(roads), maxRoads)
	}
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	buf := bufio.NewWriter(f)
	h := crc32.NewIEEE()
	w := io.MultiWriter(buf, h)

	t := flatten(roads)
	hdr := fileHeader{
		Version:    version,
		NumRoads:   uint32(len(roads)),
		NumPoints:  uint32(len(t.lngs)),
		NumStrings: uint32(len(t.strings)),
	}
	copy(hdr.Magic[:], magicBytes)

	sections := []struct {
		name string
		data any
	}{
		{"header", &hdr},
		{"way ids", t.wayIDs},
		{"classes", t.classes},
		{"flags", t.flags},
		{"point offsets", t.pointFirst},
		{"longitudes", t.lngs},
		{"latitudes", t.lats},
	}
	for _, s := range sections {
		if err := binary.Write(w, binary.LittleEndian, s.data); err != nil {
			return fmt.Errorf("write %s: %w", s.name, err)
		}
	}
	for l := range numLists {
		if err := binary.Write(w, binary.LittleEndian, t.listFirst[l]); err != nil {
			return fmt.Errorf("write list %d offsets: %w", l, err)
		}
		if err := writeLenPrefixed(w, t.listStrings[l]); err != nil {
			return fmt.Errorf("write list %d: %w", l, err)
		}
	}
	for _, s := range t.strings {
		if err := writeString(w, s); err != nil {
			return fmt.Errorf("write strings: %w", err)
		}
	}

	if err := binary.Write(buf, binary.LittleEndian, h.Sum32()); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ReadBinary loads roads written by WriteBinary, verifying the checksum and
// every offset table.
func ReadBinary(path string) ([]Road, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	cr := &crcReader{r: br, hash: crc32.NewIEEE()}

	var hdr fileHeader
	if err := binary.Read(cr, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumRoads > maxRoads || hdr.NumPoints > maxPoints || hdr.NumStrings > maxStrings {
		return nil, fmt.Errorf("header counts exceed limits: roads=%d points=%d strings=%d",
			hdr.NumRoads, hdr.NumPoints, hdr.NumStrings)
	}

	n := int(hdr.NumRoads)
	t := &table{
		wayIDs:     make([]int64, n),
		classes:    make([]uint8, n),
		flags:      make([]uint8, n),
		pointFirst: make([]uint32, n+1),
		lngs:       make([]float64, hdr.NumPoints),
		lats:       make([]float64, hdr.NumPoints),
		strings:    make([]string, hdr.NumStrings),
	}
	sections := []struct {
		name string
		data any
	}{
		{"way ids", t.wayIDs},
		{"classes", t.classes},
		{"flags", t.flags},
		{"point offsets", t.pointFirst},
		{"longitudes", t.lngs},
		{"latitudes", t.lats},
	}
	for _, s := range sections {
		if err := binary.Read(cr, binary.LittleEndian, s.data); err != nil {
			return nil, fmt.Errorf("read %s: %w", s.name, err)
		}
	}
	if err := validateOffsets(t.pointFirst, len(t.lngs)); err != nil {
		return nil, fmt.Errorf("point offsets: %w", err)
	}

	for l := range numLists {
		t.listFirst[l] = make([]uint32, n+1)
		if err := binary.Read(cr, binary.LittleEndian, t.listFirst[l]); err != nil {
			return nil, fmt.Errorf("read list %d offsets: %w", l, err)
		}
		if t.listStrings[l], err = readLenPrefixed(cr, maxPoints); err != nil {
			return nil, fmt.Errorf("read list %d: %w", l, err)
		}
		if err := validateOffsets(t.listFirst[l], len(t.listStrings[l])); err != nil {
			return nil, fmt.Errorf("list %d offsets: %w", l, err)
		}
		for i, idx := range t.listStrings[l] {
			if idx >= hdr.NumStrings {
				return nil, fmt.Errorf("list %d entry %d: string %d >= %d", l, i, idx, hdr.NumStrings)
			}
		}
	}
	for i := range t.strings {
		if t.strings[i], err = readString(cr); err != nil {
			return nil, fmt.Errorf("read string %d: %w", i, err)
		}
	}

	expected := cr.hash.Sum32()
	var stored uint32
	if err := binary.Read(br, binary.LittleEndian, &stored); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if stored != expected {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", stored, expected)
	}

	return t.roads(), nil
}

// validateOffsets checks that offsets start at zero, never decrease and end
// at total.
func validateOffsets(first []uint32, total int) error {
	if len(first) == 0 || first[0] != 0 {
		return errors.New("offsets must start at 0")
	}
	for i := 1; i < len(first); i++ {
		if first[i] < first[i-1] {
			return fmt.Errorf("not monotonic at %d: %d < %d", i, first[i], first[i-1])
		}
	}
	if last := first[len(first)-1]; int(last) != total {
		return fmt.Errorf("last offset %d != %d entries", last, total)
	}
	return nil
}

func writeLenPrefixed(w io.Writer, s []uint32) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, s)
}

func readLenPrefixed(r io.Reader, limit uint32) ([]uint32, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n > limit {
		return nil, fmt.Errorf("length %d exceeds limit %d", n, limit)
	}
	s := make([]uint32, n)
	if err := binary.Read(r, binary.LittleEndian, s); err != nil {
		return nil, err
	}
	return s, nil
}

const maxStringLen = 1 << 16

func writeString(w io.Writer, s string) error {
	if len(s) >= maxStringLen {
		s = s[:maxStringLen-1]
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

type crcReader struct {
	r    io.Reader
	hash hash.Hash32
}

func (cr *crcReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
