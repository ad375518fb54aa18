package formflow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// Asset describes a binary upload by its metadata. Content is only read
// through Open/Bytes, so constraints on Size or ContentType never load it.
type Asset struct {
	Name        string
	Size        int64
	ContentType string

	open func() (io.ReadCloser, error)
}

// ErrAssetUnreadable is returned by Open when the asset carries no content
// source.
var ErrAssetUnreadable = errors.New("formflow: asset has no content source")

// NewAsset builds an asset from metadata and a lazy content opener.
func NewAsset(name string, size int64, contentType string, open func() (io.ReadCloser, error)) *Asset {
	return &Asset{Name: name, Size: size, ContentType: contentType, open: open}
}

// AssetFromBytes wraps in-memory content. The content type is sniffed.
func AssetFromBytes(name string, data []byte) *Asset {
	buf := append([]byte(nil), data...)
	return &Asset{
		Name:        name,
		Size:        int64(len(buf)),
		ContentType: http.DetectContentType(buf),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		},
	}
}

// AssetFromFile stats path and returns an asset that opens the file on demand.
// The content type is derived from the extension.
func AssetFromFile(path string) (*Asset, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat asset: %w", err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("asset %s is a directory", path)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &Asset{
		Name:        filepath.Base(path),
		Size:        fi.Size(),
		ContentType: ct,
		open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// Open returns a reader over the asset content.
func (a Asset) Open() (io.ReadCloser, error) {
	if a.open == nil {
		return nil, ErrAssetUnreadable
	}
	return a.open()
}

// Bytes reads the whole content.
func (a Asset) Bytes() ([]byte, error) {
	rc, err := a.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", a.Name, err)
	}
	return data, nil
}
