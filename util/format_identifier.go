package util

import (
	"fmt"
	"os"

	"github.com/richardlehane/siegfried"

	"github.com/islandora-tools/batch-ingest-services/constants"
)

type IdRecord struct {
	MatchType string
	MimeType  string
	Succeeded bool
}

// FormatIdentifier identifies file formats using siegfried, which
// matches content against PRONOM format signatures. It needs a
// compiled signature file (default.sig, produced by `roy build`). When
// no signature file is configured, identification falls back to the
// extension table in the constants package.
type FormatIdentifier struct {
	sf         *siegfried.Siegfried
	pathToSigs string
}

// NewFormatIdentifier returns a FormatIdentifier backed by the
// signature file at pathToSigs. An empty path returns an identifier
// that can only match by extension.
func NewFormatIdentifier(pathToSigs string) (*FormatIdentifier, error) {
	f := &FormatIdentifier{pathToSigs: pathToSigs}
	if pathToSigs != "" {
		sf, err := siegfried.Load(pathToSigs)
		if err != nil {
			return nil, fmt.Errorf("cannot load siegfried signatures from %s: %v", pathToSigs, err)
		}
		f.sf = sf
	}
	return f, nil
}

// CanIdentifyByContent returns true if a signature file was loaded.
func (f *FormatIdentifier) CanIdentifyByContent() bool {
	return f.sf != nil
}

// Identify returns an IdRecord for the file at filePath. Content-based
// identification runs first when available; if siegfried cannot match
// the content, or no signature file is loaded, we match by extension.
// IdRecord.Succeeded is false when neither method produced a MIME type.
func (f *FormatIdentifier) Identify(filePath string) (*IdRecord, error) {
	if f.sf != nil {
		record, err := f.identifyByContent(filePath)
		if err != nil {
			return nil, err
		}
		if record.Succeeded {
			return record, nil
		}
	}
	return f.IdentifyByExtension(filePath), nil
}

func (f *FormatIdentifier) identifyByContent(filePath string) (*IdRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	ids, err := f.sf.Identify(file, filePath, "")
	if err != nil {
		return nil, err
	}
	record := &IdRecord{MatchType: "signature"}
	for _, id := range ids {
		for _, pair := range f.sf.Label(id) {
			if pair[0] == "mime" && pair[1] != "" {
				record.MimeType = pair[1]
				record.Succeeded = true
				return record, nil
			}
		}
	}
	return record, nil
}

// IdentifyByExtension matches the file's extension against our static
// MIME table. Unknown extensions yield an unsuccessful record with
// application/octet-stream as a last-resort type.
func (f *FormatIdentifier) IdentifyByExtension(filePath string) *IdRecord {
	record := &IdRecord{MatchType: "extension"}
	if mimeType, ok := constants.MimeTypes[FileExtension(filePath)]; ok {
		record.MimeType = mimeType
		record.Succeeded = true
	} else {
		record.MimeType = "application/octet-stream"
	}
	return record
}
