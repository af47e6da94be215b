package service

import (
	"fmt"
	"path/filepath"
)

// ObjectSpec describes one object to be created in the repository.
// It is derived once per input directory by the classifier and is not
// modified afterward; the ingester reads it to build the create-object
// call and the relationship triples.
type ObjectSpec struct {
	// PID is the full namespace:identifier key for the object. Empty
	// means the repository assigns one at create time.
	PID string `json:"pid"`

	// Namespace is the PID namespace used when the repository assigns
	// the identifier.
	Namespace string `json:"namespace"`

	// Label is the human-readable object label, taken from the MODS
	// titleInfo/title element.
	Label string `json:"label"`

	// ContentModel is the PID of the object's content model, e.g.
	// islandora:sp_pdf.
	ContentModel string `json:"content_model"`

	// Kind selects the ingester: single, book, newspaper_issue or
	// compound.
	Kind string `json:"kind"`

	// Owner is the repository user recorded as the object's owner.
	Owner string `json:"owner"`

	// State is A (active), I (inactive) or D (deleted).
	State string `json:"state"`

	// SourceDir is the input directory this spec was derived from.
	SourceDir string `json:"source_dir"`

	// ChecksumType is the checksum setting in force for this object's
	// datastreams: sha1 or none.
	ChecksumType string `json:"checksum_type"`
}

// DirName returns the basename of the spec's source directory, which
// identifies the object in logs before it has a PID.
func (spec *ObjectSpec) DirName() string {
	return filepath.Base(spec.SourceDir)
}

// Identifier returns the best available identifier for log messages:
// the PID if known, else the source directory name.
func (spec *ObjectSpec) Identifier() string {
	if spec.PID != "" {
		return spec.PID
	}
	return spec.DirName()
}

func (spec *ObjectSpec) String() string {
	return fmt.Sprintf("%s (%s, %s)", spec.Identifier(), spec.ContentModel, spec.Kind)
}
