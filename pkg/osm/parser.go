// Package osm extracts drivable, named roads from OpenStreetMap extracts in
// PBF or XML form.
package osm

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"github.com/azybler/map_instructions/pkg/logger"
	"github.com/azybler/map_instructions/pkg/maneuver"
	"github.com/azybler/map_instructions/pkg/roads"
)

// Pass identifies which objects a scan is after.
type Pass int

const (
	PassWays Pass = iota
	PassNodes
)

// Opener starts a new scan of the input from the beginning.
type Opener func(ctx context.Context, pass Pass) (osm.Scanner, error)

// PBF reads a protobuf extract, rewinding rs for each pass.
func PBF(rs io.ReadSeeker) Opener {
	return func(ctx context.Context, pass Pass) (osm.Scanner, error) {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
		s := osmpbf.New(ctx, rs, runtime.GOMAXPROCS(0))
		s.SkipRelations = true
		s.SkipNodes = pass == PassWays
		s.SkipWays = pass == PassNodes
		return s, nil
	}
}

// XML reads an .osm XML document, rewinding rs for each pass.
func XML(rs io.ReadSeeker) Opener {
	return func(ctx context.Context, _ Pass) (osm.Scanner, error) {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
		return osmxml.New(ctx, rs), nil
	}
}

// OpenFile opens path and picks the reader from its extension (.pbf or .osm).
// The caller closes the returned file.
func OpenFile(path string) (Opener, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pbf":
		return PBF(f), f, nil
	case ".osm", ".xml":
		return XML(f), f, nil
	}
	f.Close()
	return nil, nil, fmt.Errorf("unsupported OSM file type %q", filepath.Ext(path))
}

// BBox limits parsing to a geographic area. The zero value means no limit.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero reports whether the box is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains reports whether the point is inside the box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures Parse.
type ParseOptions struct {
	// BBox keeps only roads with at least one point inside it.
	BBox BBox
	// NamedOnly drops roads with no name, ref or destination.
	NamedOnly bool
}

type wayInfo struct {
	road    roads.Road
	nodeIDs []osm.NodeID
	reverse bool
}

func wayFromOSM(w *osm.Way) (wayInfo, bool) {
	if len(w.Nodes) < 2 || !isCarAccessible(w.Tags) {
		return wayInfo{}, false
	}
	fwd, bwd := directionFlags(w.Tags)
	if !fwd && !bwd {
		return wayInfo{}, false
	}

	info := wayInfo{
		road: roads.Road{
			WayID:           int64(w.ID),
			Names:           maneuver.SplitList(w.Tags.Find("name")),
			Refs:            maneuver.SplitList(w.Tags.Find("ref")),
			Destinations:    maneuver.SplitList(w.Tags.Find("destination")),
			DestinationRefs: maneuver.SplitList(w.Tags.Find("destination:ref")),
			Classes:         roadClasses(w.Tags),
			Roundabout:      isRoundabout(w.Tags),
			Oneway:          fwd != bwd,
		},
		nodeIDs: make([]osm.NodeID, len(w.Nodes)),
		reverse: !fwd,
	}
	for i, n := range w.Nodes {
		info.nodeIDs[i] = n.ID
	}
	return info, true
}

func (w *wayInfo) named() bool {
	r := &w.road
	return len(r.Names) > 0 || len(r.Refs) > 0 || len(r.Destinations) > 0 || len(r.DestinationRefs) > 0
}

// Parse reads the input in two passes, ways first and then only the nodes
// those ways reference, and returns one Road per usable way.
func Parse(ctx context.Context, open Opener, opts ParseOptions) ([]roads.Road, error) {
	referenced := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	err := scan(ctx, open, PassWays, func(obj osm.Object) {
		w, ok := obj.(*osm.Way)
		if !ok {
			return
		}
		info, ok := wayFromOSM(w)
		if !ok || (opts.NamedOnly && !info.named()) {
			return
		}
		for _, id := range info.nodeIDs {
			referenced[id] = struct{}{}
		}
		ways = append(ways, info)
	})
	if err != nil {
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	logger.Infof("Pass 1 complete: %d ways, %d referenced nodes", len(ways), len(referenced))

	coords := make(map[osm.NodeID]orb.Point, len(referenced))
	err = scan(ctx, open, PassNodes, func(obj osm.Object) {
		n, ok := obj.(*osm.Node)
		if !ok {
			return
		}
		if _, needed := referenced[n.ID]; needed {
			coords[n.ID] = orb.Point{n.Lon, n.Lat}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	logger.Infof("Pass 2 complete: %d node coordinates collected", len(coords))

	return assemble(ways, coords, opts.BBox), nil
}

func scan(ctx context.Context, open Opener, pass Pass, fn func(osm.Object)) error {
	s, err := open(ctx, pass)
	if err != nil {
		return err
	}
	defer s.Close()
	for s.Scan() {
		fn(s.Object())
	}
	return s.Err()
}

// assemble attaches geometry to each way. Nodes without coordinates are
// dropped; ways left with fewer than two points are skipped.
func assemble(ways []wayInfo, coords map[osm.NodeID]orb.Point, box BBox) []roads.Road {
	useBBox := !box.IsZero()
	out := make([]roads.Road, 0, len(ways))
	var missing, short, outside int

	for _, w := range ways {
		line := make(orb.LineString, 0, len(w.nodeIDs))
		inside := !useBBox
		for _, id := range w.nodeIDs {
			p, ok := coords[id]
			if !ok {
				missing++
				continue
			}
			if !inside && box.Contains(p.Lat(), p.Lon()) {
				inside = true
			}
			line = append(line, p)
		}
		if len(line) < 2 {
			short++
			continue
		}
		if !inside {
			outside++
			continue
		}
		if w.reverse {
			slices.Reverse(line)
		}
		r := w.road
		r.Geometry = line
		out = append(out, r)
	}

	if missing > 0 {
		logger.Warningf("Dropped %d way nodes with no coordinates", missing)
	}
	if short > 0 {
		logger.Warningf("Skipped %d ways with fewer than two located nodes", short)
	}
	if outside > 0 {
		logger.Infof("Filtered %d ways outside bounding box", outside)
	}
	logger.Infof("Built %d roads", len(out))
	return out
}
