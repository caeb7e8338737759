// Package format defines the small, shared vocabulary of on-disk type codes
// used across the pulsedb engine: the row record discriminator and the
// engine's current on-disk version.
package format

// RecordTag identifies the kind of a row record. It occupies the high bits
// of the first byte of every row (see the encoding package for the exact
// bit layout); the remaining bits are always written as zero.
type RecordTag uint8

const (
	// TagFullMD marks a self-contained market-data snapshot: absolute
	// timestamp followed by 2*depth absolute (price, volume) pairs.
	TagFullMD RecordTag = 0x1

	// TagDeltaMD marks a market-data record encoded as a delta against the
	// previous market-data snapshot, whether that one was written full or
	// as a delta.
	TagDeltaMD RecordTag = 0x2

	// TagTrade marks a trade record: absolute timestamp, absolute scaled
	// price, absolute volume.
	TagTrade RecordTag = 0x3
)

func (t RecordTag) String() string {
	switch t {
	case TagFullMD:
		return "FullMD"
	case TagDeltaMD:
		return "DeltaMD"
	case TagTrade:
		return "Trade"
	default:
		return "Unknown"
	}
}

// CurrentVersion is the on-disk format version this engine writes and reads
// natively. A header whose version field differs requires migration (see
// the reader package's Migrate function and errs.ErrNeedMigration).
const CurrentVersion = 1
