package section

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pulsedb/pulsedb/errs"
)

// Header holds the file-wide parameters fixed at file creation, per
// spec.md §3.
type Header struct {
	Version    int
	Stock      string
	Date       time.Time // UTC midnight of the file's calendar date
	Depth      int
	Scale      int64
	ChunkSize  int // seconds
	HaveCandle bool
}

// NumberOfChunks is 86400 / ChunkSize.
func (h Header) NumberOfChunks() int {
	return SecondsPerDay / h.ChunkSize
}

// DayStartMs is midnight UTC of h.Date, in milliseconds since epoch.
func (h Header) DayStartMs() int64 {
	return h.Date.UnixMilli()
}

// Validate checks the structural sanity of the header's numeric fields
// (invariant 4 of spec.md §4.2): depth, scale, and chunk_size must be
// positive, and chunk_size must evenly divide a day.
func (h Header) Validate() error {
	if h.Depth <= 0 {
		return fmt.Errorf("%w: depth %d must be > 0", errs.ErrInvalidHeader, h.Depth)
	}
	if h.Scale <= 0 {
		return fmt.Errorf("%w: scale %d must be > 0", errs.ErrInvalidHeader, h.Scale)
	}
	if h.ChunkSize <= 0 || SecondsPerDay%h.ChunkSize != 0 {
		return fmt.Errorf("%w: chunk_size %d must be > 0 and divide %d", errs.ErrInvalidHeader, h.ChunkSize, SecondsPerDay)
	}

	return nil
}

// Write renders h as shebang line, key:value lines, and the blank
// terminator line, per spec.md §6.
func Write(w io.Writer, h Header) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n", Shebang)
	fmt.Fprintf(bw, "version: %d\n", h.Version)
	fmt.Fprintf(bw, "stock: %s\n", h.Stock)
	fmt.Fprintf(bw, "date: %s\n", h.Date.Format("2006/01/02"))
	fmt.Fprintf(bw, "depth: %d\n", h.Depth)
	fmt.Fprintf(bw, "scale: %d\n", h.Scale)
	fmt.Fprintf(bw, "chunk_size: %d\n", h.ChunkSize)
	fmt.Fprintf(bw, "have_candle: %s\n", strconv.FormatBool(h.HaveCandle))
	fmt.Fprintf(bw, "\n")

	return bw.Flush()
}

// Read parses a header off r, stopping at the first blank line. It returns
// the parsed Header and the number of bytes consumed, so callers can
// compute the offset of the region that follows.
func Read(r io.Reader) (Header, int64, error) {
	br := bufio.NewReader(r)

	var (
		h       Header
		read    int64
		sawFile bool
	)

	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return Header{}, read, err
		}
		if err == io.EOF && line == "" {
			return Header{}, read, fmt.Errorf("%w: unterminated header", errs.ErrInvalidHeader)
		}
		read += int64(len(line))

		trimmed := strings.TrimRight(line, "\n")

		if read == int64(len(line)) && trimmed != Shebang {
			return Header{}, read, fmt.Errorf("%w: missing shebang line", errs.ErrInvalidHeader)
		}

		switch {
		case trimmed == "":
			if !sawFile {
				return Header{}, read, fmt.Errorf("%w: empty header", errs.ErrInvalidHeader)
			}

			return h, read, nil
		case strings.HasPrefix(trimmed, "#"):
			sawFile = true
			continue
		}

		sawFile = true

		key, val, ok := strings.Cut(trimmed, ":")
		if !ok {
			return Header{}, read, fmt.Errorf("%w: malformed line %q", errs.ErrInvalidHeader, trimmed)
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		if err := setField(&h, key, val); err != nil {
			return Header{}, read, err
		}

		if err == io.EOF {
			return Header{}, read, fmt.Errorf("%w: unterminated header", errs.ErrInvalidHeader)
		}
	}
}

func setField(h *Header, key, val string) error {
	switch key {
	case "version":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: version %q: %w", errs.ErrInvalidHeader, val, err)
		}
		h.Version = n
	case "stock":
		h.Stock = val
	case "date":
		t, err := time.Parse("2006/01/02", val)
		if err != nil {
			return fmt.Errorf("%w: date %q: %w", errs.ErrInvalidHeader, val, err)
		}
		h.Date = t
	case "depth":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: depth %q: %w", errs.ErrInvalidHeader, val, err)
		}
		h.Depth = n
	case "scale":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: scale %q: %w", errs.ErrInvalidHeader, val, err)
		}
		h.Scale = n
	case "chunk_size":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: chunk_size %q: %w", errs.ErrInvalidHeader, val, err)
		}
		h.ChunkSize = n
	case "have_candle":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%w: have_candle %q: %w", errs.ErrInvalidHeader, val, err)
		}
		h.HaveCandle = b
	default:
		// unrecognized keys are tolerated for forward compatibility
	}

	return nil
}
