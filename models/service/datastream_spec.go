package service

import "fmt"

// DatastreamSpec describes one content file to be attached to an
// object. Derived per file by the datastream uploader and discarded
// after the upload call.
type DatastreamSpec struct {
	// DSID is the datastream identifier, unique within the object:
	// OBJ, MODS, TN, etc.
	DSID string `json:"dsid"`

	// SourcePath is the local file holding the content.
	SourcePath string `json:"source_path"`

	// Label is the datastream label shown in the repository. We use
	// the source file's basename.
	Label string `json:"label"`

	// MimeType of the content.
	MimeType string `json:"mime_type"`

	// Checksum is the hex digest of the content, empty when checksums
	// are disabled.
	Checksum string `json:"checksum"`

	// ChecksumType is the repository's name for the digest algorithm,
	// e.g. SHA-1. Empty when checksums are disabled.
	ChecksumType string `json:"checksum_type"`

	// Size of the content in bytes.
	Size int64 `json:"size"`

	// ControlGroup is the Fedora control group, always M (managed)
	// for uploaded content.
	ControlGroup string `json:"control_group"`
}

func (ds *DatastreamSpec) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", ds.DSID, ds.MimeType, ds.Size)
}
