// Package collab defines the thin external-collaborator interfaces
// spec.md §6 deliberately keeps out of the core engine: path resolution
// and process-wide configuration. The engine consumes these through
// interfaces only; it holds no global state of its own.
package collab

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pulsedb/pulsedb/internal/hash"
)

// PathResolver maps (stock, date) pairs to file paths and lists what is
// stored: Path(stock, date), Stocks(), Dates(stock) and
// CommonDates(stocks). It has no date-parsing method.
type PathResolver interface {
	Path(stock string, date time.Time) string
	Stocks() ([]string, error)
	Dates(stock string) ([]time.Time, error)
	CommonDates(stocks []string) ([]time.Time, error)
}

// ShardedResolver lays files out under root as
// root/<shard>/<stock>/<YYYY>/<MM>/<stock>_<YYYYMMDD>.pdb, sharding the
// stock-level directory by the low byte of hash.ID(stock) to bound the
// number of directory entries at any one level — the same hash-based
// partitioning mebo uses to distribute metric lookups, applied here to
// filesystem fanout instead of an in-memory index.
type ShardedResolver struct {
	Root string
}

// Path implements PathResolver.
func (r ShardedResolver) Path(stock string, date time.Time) string {
	return filepath.Join(
		r.Root,
		ShardOf(stock),
		stock,
		date.Format("2006"),
		date.Format("01"),
		fmt.Sprintf("%s_%s.pdb", stock, date.Format("20060102")),
	)
}

// ShardOf returns the two-hex-digit shard directory name for stock.
func ShardOf(stock string) string {
	return fmt.Sprintf("%02x", byte(hash.ID(stock)))
}

// Stocks, Dates, and CommonDates require walking r.Root; left unimplemented
// here as they are outer-surface directory listing concerns the core
// engine never calls (spec.md §1 names the path scheme as an external
// collaborator "contracted via §6 only").
func (r ShardedResolver) Stocks() ([]string, error) { return nil, errNotImplemented }

func (r ShardedResolver) Dates(stock string) ([]time.Time, error) { return nil, errNotImplemented }

func (r ShardedResolver) CommonDates(stocks []string) ([]time.Time, error) {
	return nil, errNotImplemented
}
