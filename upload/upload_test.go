package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Endpoint:  "localhost:9000",
		AccessKey: "a",
		SecretKey: "b",
		Region:    "us-east-1",
		Bucket:    "avatars",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	invalid := valid
	invalid.Endpoint = "http://localhost:9000"
	if err := invalid.Validate(); err == nil {
		t.Fatalf("Validate() expected error for scheme in endpoint")
	}
	invalid = valid
	invalid.Bucket = " "
	if err := invalid.Validate(); err == nil {
		t.Fatalf("Validate() expected error for empty bucket")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("FORMFLOW_MINIO_BUCKET", "uploads")
	t.Setenv("FORMFLOW_MINIO_USE_SSL", "true")
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() err=%v", err)
	}
	if cfg.Bucket != "uploads" || !cfg.UseSSL {
		t.Fatalf("ConfigFromEnv()=%+v", cfg)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("default timeout=%s", cfg.Timeout)
	}

	t.Setenv("FORMFLOW_UPLOAD_TIMEOUT", "2s")
	if cfg, err = ConfigFromEnv(); err != nil || cfg.Timeout != 2*time.Second {
		t.Fatalf("ConfigFromEnv() timeout=%s err=%v", cfg.Timeout, err)
	}
	t.Setenv("FORMFLOW_UPLOAD_TIMEOUT", "later")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatalf("ConfigFromEnv() expected error for bad duration")
	}
	t.Setenv("FORMFLOW_UPLOAD_TIMEOUT", "2s")

	t.Setenv("FORMFLOW_MINIO_USE_SSL", "maybe")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatalf("ConfigFromEnv() expected error for bad bool")
	}
}

type fakeStore struct {
	bucket, key, contentType string
	body                     []byte
	deadline                 bool
	err                      error
}

func (f *fakeStore) PutObject(ctx context.Context, bucket, key string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.bucket, f.key, f.contentType = bucket, key, opts.ContentType
	f.body, _ = io.ReadAll(r)
	_, f.deadline = ctx.Deadline()
	return minio.UploadInfo{Bucket: bucket, Key: key}, f.err
}

func TestMinioUpload_KeyAndContent(t *testing.T) {
	store := &fakeStore{}
	m := &Minio{store: store, bucket: "avatars", prefix: "profiles"}
	if err := m.Upload(context.Background(), "me.txt", []byte("hello")); err != nil {
		t.Fatalf("Upload() err=%v", err)
	}
	if store.bucket != "avatars" || store.key != "profiles/me.txt" {
		t.Fatalf("put %s/%s", store.bucket, store.key)
	}
	if string(store.body) != "hello" {
		t.Fatalf("body=%q", store.body)
	}
	if store.contentType != "text/plain; charset=utf-8" {
		t.Fatalf("content type=%q", store.contentType)
	}
}

func TestMinioUpload_Timeout(t *testing.T) {
	store := &fakeStore{}
	m := &Minio{store: store, bucket: "avatars"}
	if err := m.Upload(context.Background(), "a.png", nil); err != nil || store.deadline {
		t.Fatalf("no timeout configured: deadline=%v err=%v", store.deadline, err)
	}
	m.timeout = time.Second
	if err := m.Upload(context.Background(), "a.png", nil); err != nil || !store.deadline {
		t.Fatalf("timeout configured: deadline=%v err=%v", store.deadline, err)
	}
}

func TestMinioUpload_WrapsError(t *testing.T) {
	boom := errors.New("denied")
	m := &Minio{store: &fakeStore{err: boom}, bucket: "avatars"}
	if err := m.Upload(context.Background(), "me.png", nil); !errors.Is(err, boom) {
		t.Fatalf("Upload() err=%v, want wrapped denied", err)
	}
}

func TestDirUpload(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	d := NewDir(root)
	if err := d.Upload(context.Background(), "nested/me.png", []byte("png")); err != nil {
		t.Fatalf("Upload() err=%v", err)
	}
	got, err := os.ReadFile(filepath.Join(root, "me.png"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "png" {
		t.Fatalf("content=%q", got)
	}
	if err := d.Upload(context.Background(), "..", nil); err == nil {
		t.Fatalf("Upload() expected error for %q", "..")
	}
}
