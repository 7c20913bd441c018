// Package storage backs file uploads and downloads with Mongo GridFS.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inducthub/internal/model"
)

var ErrNoFileData = errors.New("file has no data to upload")

// GridFSStore stores induction files (question images, uploaded evidence)
// in a GridFS bucket. Stored names are the deterministic paths the
// session engine derives, so re-uploads overwrite logically rather than
// accumulate.
type GridFSStore struct {
	bucket  *gridfs.Bucket
	urlBase string
}

// NewGridFSStore opens the uploads bucket on the given database. urlBase
// is prefixed onto stored names to form client-facing URLs (the REST
// layer serves that route).
func NewGridFSStore(db *mongo.Database, urlBase string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("uploads"))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket, urlBase: urlBase}, nil
}

// Upload writes the file bytes under the given path and returns the
// stored name.
func (s *GridFSStore) Upload(ctx context.Context, path string, file *model.FileRef) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", ErrNoFileData
	}
	opts := options.GridFSUpload().SetMetadata(bson.M{
		"originalName": file.Name,
		"contentType":  file.ContentType,
	})
	if _, err := s.bucket.UploadFromStream(path, bytes.NewReader(file.Data), opts); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return path, nil
}

// ResolveURL maps a stored file reference to the URL it is served from.
func (s *GridFSStore) ResolveURL(_ context.Context, ref string) (string, error) {
	if ref == "" {
		return "", errors.New("empty file reference")
	}
	return s.urlBase + "/" + ref, nil
}

// Download streams a stored file into w.
func (s *GridFSStore) Download(_ context.Context, ref string, w io.Writer) error {
	if _, err := s.bucket.DownloadToStreamByName(ref, w); err != nil {
		return fmt.Errorf("download %s: %w", ref, err)
	}
	return nil
}
