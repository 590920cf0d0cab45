package gstorage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/logger"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

var ErrObjectNotExist = storage.ErrObjectNotExist

var logg = logger.NewLogger()

// GStorage copies the sqlite file to and from a cloud bucket, used by the
// periodic backup job.
type GStorage struct {
	storageClient *storage.Client
}

func NewGStorage(credentialsFilePath string) (*GStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFilePath != "" {
		client, err = storage.NewClient(context.Background(), option.WithCredentialsFile(credentialsFilePath))
	} else {
		client, err = storage.NewClient(context.Background())
	}

	if err != nil {
		return nil, errors.Wrap(err, "NewGStorage")
	}

	return &GStorage{storageClient: client}, nil
}

// UploadFile uploads filePath as <prefix>/<base name> into the bucket.
func (gs *GStorage) UploadFile(bucket, prefix, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return errors.Wrap(err, "os.Open")
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*50)
	defer cancel()

	objectName := path.Join(prefix, filepath.Base(filePath))
	wc := gs.storageClient.Bucket(bucket).Object(objectName).NewWriter(ctx)
	if _, err = io.Copy(wc, f); err != nil {
		return errors.Wrap(err, "io.Copy")
	}
	if err := wc.Close(); err != nil {
		return errors.Wrap(err, "Writer.Close")
	}

	logg.Infof("Blob %v uploaded", objectName)
	return nil
}

// DownloadFile downloads an object to a file.
func (gs *GStorage) DownloadFile(bucket, object string, destFileName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*50)
	defer cancel()

	f, err := os.Create(destFileName)
	if err != nil {
		return errors.Wrap(err, "os.Create")
	}

	rc, err := gs.storageClient.Bucket(bucket).Object(object).NewReader(ctx)
	if err == storage.ErrObjectNotExist {
		return err
	}
	if err != nil {
		return errors.Wrapf(err, "Object(%q).NewReader", object)
	}
	defer rc.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return errors.Wrap(err, "io.Copy")
	}

	if err = f.Close(); err != nil {
		return errors.Wrap(err, "f.Close")
	}

	logg.Infof("Blob %v downloaded to local file %v", object, destFileName)

	return nil
}
