package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/azybler/map_instructions/pkg/logger"
	osmparser "github.com/azybler/map_instructions/pkg/osm"
	"github.com/azybler/map_instructions/pkg/roads"
)

func main() {
	input := flag.String("input", "", "Path to .osm.pbf (or .osm XML) file")
	output := flag.String("output", "roads.bin", "Output roads binary path")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng (e.g. 1.15,103.6,1.48,104.1)")
	singapore := flag.Bool("singapore", false, "Shortcut for --bbox 1.15,103.6,1.48,104.1 (Singapore bounding box)")
	kl := flag.Bool("kl", false, "Shortcut for --bbox 2.75,101.2,3.5,102.0 (Selangor + Kuala Lumpur bounding box)")
	namedOnly := flag.Bool("named-only", true, "Keep only roads with a name, ref or destination")
	logLevel := flag.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	flag.Parse()

	logCfg := logger.DefaultConfig()
	logCfg.Level = *logLevel
	if err := logger.Initialize(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input <file.osm.pbf> [--output roads.bin] [--singapore | --kl | --bbox minLat,minLng,maxLat,maxLng] [--named-only=false]")
		os.Exit(1)
	}

	opts := osmparser.ParseOptions{NamedOnly: *namedOnly}
	if *kl {
		opts.BBox = osmparser.BBox{MinLat: 2.75, MaxLat: 3.5, MinLng: 101.2, MaxLng: 102.0}
		logger.Info("Using Selangor + KL bounding box filter: lat [2.75, 3.50], lng [101.20, 102.00]")
	} else if *singapore {
		opts.BBox = osmparser.BBox{MinLat: 1.15, MaxLat: 1.48, MinLng: 103.6, MaxLng: 104.1}
		logger.Info("Using Singapore bounding box filter: lat [1.15, 1.48], lng [103.6, 104.1]")
	} else if *bbox != "" {
		var minLat, minLng, maxLat, maxLng float64
		if _, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
			fatalf("Invalid bbox format (expected minLat,minLng,maxLat,maxLng): %v", err)
		}
		if minLat > maxLat || minLng > maxLng {
			fatalf("Invalid bbox: minimum exceeds maximum")
		}
		opts.BBox = osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
		logger.Infof("Using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", minLat, maxLat, minLng, maxLng)
	}

	start := time.Now()

	logger.Infof("Opening %s...", *input)
	open, closer, err := osmparser.OpenFile(*input)
	if err != nil {
		fatalf("Failed to open input file: %v", err)
	}
	defer closer.Close()

	rs, err := osmparser.Parse(context.Background(), open, opts)
	if err != nil {
		fatalf("Failed to parse OSM data: %v", err)
	}

	var total float64
	var points int
	for i := range rs {
		total += rs[i].Length()
		points += len(rs[i].Geometry)
	}
	logger.Infof("Parsed %d roads, %d points, %.1f km", len(rs), points, total/1000)

	logger.Infof("Writing binary to %s...", *output)
	if err := roads.WriteBinary(*output, rs); err != nil {
		fatalf("Failed to write binary: %v", err)
	}

	info, err := os.Stat(*output)
	if err != nil {
		fatalf("Failed to stat output: %v", err)
	}
	logger.Infof("Done in %s. Output: %s (%.1f MB)", time.Since(start).Round(time.Second), *output, float64(info.Size())/(1024*1024))
}

func fatalf(format string, args ...any) {
	logger.Errorf(format, args...)
	os.Exit(1)
}
