// Command tickctl is a small operational tool for inspecting and
// exporting pulsedb files: info, dump, and export subcommands.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pulsedb/pulsedb"
	"github.com/pulsedb/pulsedb/archive"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: tickctl <info|dump|export> [flags]")
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "info":
		runInfo(args)
	case "dump":
		runDump(args)
	case "export":
		runExport(args)
	default:
		log.Fatalf("unknown subcommand %q", cmd)
	}
}

func runInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	path := fs.String("path", "", "path to a pulsedb file")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	if *path == "" {
		log.Fatalf("-path is required")
	}

	r, err := pulsedb.OpenRead(*path)
	if err != nil {
		log.Fatalf("open %s: %v", *path, err)
	}

	info := r.Info()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		log.Fatalf("encode info: %v", err)
	}
}

func runDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	path := fs.String("path", "", "path to a pulsedb file")
	start := fs.Int64("start", 0, "range start (ms), 0 = unbounded")
	end := fs.Int64("end", 0, "range end (ms), 0 = unbounded")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	if *path == "" {
		log.Fatalf("-path is required")
	}

	r, err := pulsedb.OpenRead(*path)
	if err != nil {
		log.Fatalf("open %s: %v", *path, err)
	}

	it := r.Iterator()
	if *start > 0 || *end > 0 {
		rangeEnd := *end
		if rangeEnd == 0 {
			rangeEnd = 1<<63 - 1
		}
		it.SetRange(*start, rangeEnd)
	}

	enc := json.NewEncoder(os.Stdout)
	for {
		e, ok, err := it.ReadEvent()
		if err != nil {
			log.Fatalf("read event: %v", err)
		}
		if !ok {
			break
		}

		if err := enc.Encode(e); err != nil {
			log.Fatalf("encode event: %v", err)
		}
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	path := fs.String("path", "", "path to a pulsedb file")
	out := fs.String("out", "", "output file; defaults to stdout")
	codecName := fs.String("codec", "zstd", "compression codec: none, zstd, s2, lz4")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	if *path == "" {
		log.Fatalf("-path is required")
	}

	ctype, err := parseCodecName(*codecName)
	if err != nil {
		log.Fatalf("bad codec: %v", err)
	}

	events, err := pulsedb.Events(*path)
	if err != nil {
		log.Fatalf("read %s: %v", *path, err)
	}

	raw, err := json.Marshal(events)
	if err != nil {
		log.Fatalf("marshal events: %v", err)
	}

	codec, err := archive.CreateCodec(ctype, "export")
	if err != nil {
		log.Fatalf("create codec: %v", err)
	}

	compressed, err := codec.Compress(raw)
	if err != nil {
		log.Fatalf("compress: %v", err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(compressed); err != nil {
		log.Fatalf("write output: %v", err)
	}

	fmt.Fprintf(os.Stderr, "exported %d events, %d -> %d bytes (%s)\n", len(events), len(raw), len(compressed), ctype)
}

func parseCodecName(name string) (archive.CompressionType, error) {
	switch name {
	case "none":
		return archive.CompressionNone, nil
	case "zstd":
		return archive.CompressionZstd, nil
	case "s2":
		return archive.CompressionS2, nil
	case "lz4":
		return archive.CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown codec %q", name)
	}
}
