package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LocalStore writes images below dir and references them under urlPrefix,
// where the router serves dir.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "could not create upload directory")
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, contentType string, r io.Reader) (string, error) {
	name, err := objectName(contentType)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.dir, name)

	newFile, err := os.Create(fullPath)
	if err != nil {
		return "", errors.Wrap(err, "could not create file")
	}

	if _, err := io.Copy(newFile, r); err != nil {
		newFile.Close()
		os.Remove(fullPath)
		return "", errors.Wrap(err, "could not copy file data")
	}
	if err := newFile.Close(); err != nil {
		os.Remove(fullPath)
		return "", errors.Wrap(err, "could not close file")
	}

	log.WithFields(log.Fields{"file": name, "content_type": contentType}).Debug("stored image")
	return path.Join(s.urlPrefix, name), nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	name := path.Base(ref)
	if name == "." || name == "/" {
		return errors.Errorf("invalid image reference %q", ref)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "could not delete file")
	}
	return nil
}
