package filesystem

import "time"

// ReadArgs overrides the defaults a read operation would otherwise pull
// from file metadata (base-spec §4.4, §4.5).
type ReadArgs struct {
	Target    Target
	Address   *Address
	Size      *FileSize
	// IgnoreCRC suppresses the end-of-download CRC comparison; used for
	// screen capture, where the device does not produce a stable CRC
	// (base-spec §4.4 "Download integrity").
	IgnoreCRC bool
}

// WriteArgs configures a write operation.
type WriteArgs struct {
	Action      TransferCompleteAction
	Target      Target
	Address     *Address
	Overwrite   bool
	Timestamp   time.Time
	LinkedFile  *QualFileName
}

// DeleteArgs configures a delete operation.
type DeleteArgs struct {
	IncludeLinked bool
}
