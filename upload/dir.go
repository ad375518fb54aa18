package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reoring/formflow/submit"
)

// Dir writes each asset into a local directory under its original name.
type Dir struct {
	root string
}

var _ submit.Uploader = Dir{}

// NewDir returns an uploader rooted at root. The directory is created on the
// first upload.
func NewDir(root string) Dir { return Dir{root: root} }

func (d Dir) Upload(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return fmt.Errorf("upload: invalid asset name %q", name)
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	dst := filepath.Join(d.root, base)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
