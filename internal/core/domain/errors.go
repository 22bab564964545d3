package domain

import "errors"

// Domain errors represent pipeline failures.
// Fatal kinds unwind to the command and terminate the run.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCategory indicates the category is not supported.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownMode indicates the pipeline mode is not supported.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrMissingKey indicates a document has no natural key.
	ErrMissingKey = errors.New("document has no url")

	// Remote Errors.

	// ErrRemote indicates a non-recoverable remote API failure.
	ErrRemote = errors.New("remote request failed")

	// I/O Errors.

	// ErrSnapshotWrite indicates a snapshot file could not be written.
	ErrSnapshotWrite = errors.New("snapshot write failed")

	// ErrSnapshotRead indicates the snapshot directory could not be read.
	ErrSnapshotRead = errors.New("snapshot read failed")

	// ErrArchive indicates the compression step failed.
	ErrArchive = errors.New("archive failed")

	// ErrEncrypt indicates the encryption step failed.
	// The plaintext archive is left on disk.
	ErrEncrypt = errors.New("encrypt failed")

	// ErrDecrypt indicates the decryption step failed.
	ErrDecrypt = errors.New("decrypt failed")

	// ErrUnpack indicates the archive could not be unpacked.
	ErrUnpack = errors.New("unpack failed")

	// ErrStore indicates the document store could not be queried.
	ErrStore = errors.New("document store failed")
)
