package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/islandora-tools/batch-ingest-services/constants"
	"github.com/islandora-tools/batch-ingest-services/models/common"
	"github.com/islandora-tools/batch-ingest-services/models/service"
	"github.com/islandora-tools/batch-ingest-services/util"
)

var dsIDUnsafe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// DatastreamUploader attaches a directory's content files to an
// object. Every failure below is scoped to one datastream: an
// oversized or unuploadable file is skipped with a warning and the
// remaining datastreams still go up.
type DatastreamUploader struct {
	Context *common.Context
}

func NewDatastreamUploader(context *common.Context) *DatastreamUploader {
	return &DatastreamUploader{Context: context}
}

// IngestAll uploads all eligible files in the spec's directory to the
// object identified by spec.PID. cmodel.txt is configuration and never
// uploads; MODS.xml uploads as the MODS datastream; TN.* uploads as
// the thumbnail; the primary content file uploads as OBJ. Returns the
// non-fatal errors encountered.
func (u *DatastreamUploader) IngestAll(spec *service.ObjectSpec) []*service.ProcessingError {
	errors := make([]*service.ProcessingError, 0)
	files, err := util.ListFiles(spec.SourceDir)
	if err != nil {
		errors = append(errors, service.NewProcessingError(
			spec.PID, fmt.Sprintf("cannot list %s: %v", spec.SourceDir, err), false))
		return errors
	}
	for _, name := range files {
		if name == constants.FileNameCModel {
			continue
		}
		dsID := u.dsIDFor(name, files)
		sourcePath := filepath.Join(spec.SourceDir, name)
		if err := u.uploadOne(spec, dsID, sourcePath); err != nil {
			errors = append(errors, err)
		}
	}
	return errors
}

// UploadFile uploads a single externally supplied file under the given
// DSID, replacing an existing datastream when replace is set. The
// composite thumbnail back-fill runs through here.
func (u *DatastreamUploader) UploadFile(pid, dsID, sourcePath string, replace bool) *service.ProcessingError {
	ds, err := u.buildSpec(dsID, sourcePath, constants.AlgNone)
	if err != nil {
		return service.NewProcessingError(pid, err.Error(), false)
	}
	resp := u.Context.FedoraClient.UploadDatastream(pid, ds, replace)
	if resp.Error != nil {
		return service.NewProcessingError(pid,
			fmt.Sprintf("could not upload %s: %v", dsID, resp.Error), false)
	}
	return nil
}

func (u *DatastreamUploader) uploadOne(spec *service.ObjectSpec, dsID, sourcePath string) *service.ProcessingError {
	size := util.FileSize(sourcePath)
	maxBytes := u.Context.Config.MaxFileBytes()
	if maxBytes > 0 && size > maxBytes {
		u.Context.Logger.Warningf(
			"Skipping datastream %s for %s: %d bytes exceeds the %dMB ceiling",
			dsID, spec.PID, size, u.Context.Config.MaxFileSizeMB)
		return nil
	}
	ds, err := u.buildSpec(dsID, sourcePath, spec.ChecksumType)
	if err != nil {
		u.Context.Logger.Warningf("Skipping datastream %s for %s: %v", dsID, spec.PID, err)
		return service.NewProcessingError(spec.PID, err.Error(), false)
	}
	resp := u.Context.FedoraClient.UploadDatastream(spec.PID, ds, false)
	if resp.Error != nil {
		u.Context.Logger.Warningf("Could not upload datastream %s for %s: %v",
			dsID, spec.PID, resp.Error)
		return service.NewProcessingError(spec.PID,
			fmt.Sprintf("could not upload %s: %v", dsID, resp.Error), false)
	}
	u.Context.Logger.Infof("Uploaded %s to %s", ds, spec.PID)
	return nil
}

// buildSpec derives the DatastreamSpec for one file: MIME type via the
// format identifier, checksum per the object's checksum setting.
func (u *DatastreamUploader) buildSpec(dsID, sourcePath, checksumType string) (*service.DatastreamSpec, error) {
	size := util.FileSize(sourcePath)
	if size < 0 {
		return nil, fmt.Errorf("cannot stat %s", sourcePath)
	}
	idRecord, err := u.Context.FmtIdentifier.Identify(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("cannot identify format of %s: %v", sourcePath, err)
	}
	ds := &service.DatastreamSpec{
		DSID:         dsID,
		SourcePath:   sourcePath,
		Label:        filepath.Base(sourcePath),
		MimeType:     idRecord.MimeType,
		Size:         size,
		ControlGroup: constants.ControlGroupManaged,
	}
	if checksumType == constants.AlgSha1 {
		checksum, err := sha1Digest(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("cannot checksum %s: %v", sourcePath, err)
		}
		ds.Checksum = checksum
		ds.ChecksumType = constants.ChecksumTypeSha1
	}
	return ds, nil
}

// dsIDFor maps a filename to its datastream ID. MODS.xml is the
// descriptive metadata; TN.* overrides the thumbnail; the sole
// remaining content file is the primary OBJ; anything else keeps its
// own name, uppercased and cleaned to characters Fedora accepts in a
// DSID.
func (u *DatastreamUploader) dsIDFor(name string, allFiles []string) string {
	if name == constants.FileNameMods {
		return constants.DsIDMods
	}
	if IsThumbnailFile(name) {
		return constants.DsIDTn
	}
	contentCount := 0
	for _, f := range allFiles {
		if !IsMetadataFile(f) && !IsThumbnailFile(f) {
			contentCount++
		}
	}
	if contentCount == 1 {
		return constants.DsIDObj
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return dsIDUnsafe.ReplaceAllString(strings.ToUpper(base), "_")
}

func sha1Digest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	digest := sha1.New()
	if _, err := io.Copy(digest, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}
