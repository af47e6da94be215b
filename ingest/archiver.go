package ingest

import (
	"archive/tar"
	ctx "context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"

	"github.com/islandora-tools/batch-ingest-services/models/common"
)

// Archiver tars a successfully ingested input package and uploads the
// tarball to an S3 bucket, preserving the source files after the
// originals are deleted from local disk. Only runs when an archive
// bucket is configured.
type Archiver struct {
	Context *common.Context
}

func NewArchiver(context *common.Context) *Archiver {
	return &Archiver{Context: context}
}

// ArchivePackage tars dir and uploads it as <pid>.tar. Archive
// failures are warnings: the object is already safely in the
// repository, and the input files are still on disk unless deletion
// was also requested.
func (a *Archiver) ArchivePackage(dir, pid string) error {
	if a.Context.S3Client == nil {
		return nil
	}
	tarPath, err := a.tarDirectory(dir)
	if err != nil {
		return fmt.Errorf("cannot tar %s: %v", dir, err)
	}
	defer os.Remove(tarPath)

	objectName := fmt.Sprintf("%s.tar", pid)
	_, err = a.Context.S3Client.FPutObject(
		ctx.Background(),
		a.Context.Config.ArchiveBucket,
		objectName,
		tarPath,
		minio.PutObjectOptions{ContentType: "application/x-tar"})
	if err != nil {
		return fmt.Errorf("cannot upload %s to bucket %s: %v",
			objectName, a.Context.Config.ArchiveBucket, err)
	}
	a.Context.Logger.Infof("Archived %s to %s/%s",
		dir, a.Context.Config.ArchiveBucket, objectName)
	return nil
}

// tarDirectory writes dir's contents to a temp tarball and returns its
// path. Entry names are relative to dir's parent, so the tarball
// unpacks to the original directory name.
func (a *Archiver) tarDirectory(dir string) (string, error) {
	tarFile, err := os.CreateTemp("", "batch-ingest-archive-*.tar")
	if err != nil {
		return "", err
	}
	defer tarFile.Close()

	tarWriter := tar.NewWriter(tarFile)
	baseDir := filepath.Dir(dir)
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = relPath
		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(tarWriter, file)
		return err
	})
	if err != nil {
		os.Remove(tarFile.Name())
		return "", err
	}
	if err := tarWriter.Close(); err != nil {
		os.Remove(tarFile.Name())
		return "", err
	}
	return tarFile.Name(), nil
}
