package submit_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	ff "github.com/reoring/formflow"
	"github.com/reoring/formflow/dsl"
	"github.com/reoring/formflow/submit"
)

func avatarSchema() *ff.Schema {
	return ff.Object().
		Field(ff.Text("name").Require("Name is required").Transform(dsl.TitleCase)).
		Field(ff.File("avatar").Require("Avatar is required").Check(dsl.MaxBytes(5*dsl.MiB, "Max 5MB"))).
		MustBuild()
}

type recorder struct {
	mu    sync.Mutex
	names []string
	data  [][]byte
	err   error
}

func (r *recorder) Upload(_ context.Context, name string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	r.data = append(r.data, data)
	return r.err
}

func TestSubmit_InvalidNeverUploads(t *testing.T) {
	up := &recorder{}
	var trail []submit.State
	out := submit.Submit(context.Background(), avatarSchema(), ff.RawInput{"name": "ana"}, up,
		submit.WithObserver(func(_, to submit.State) { trail = append(trail, to) }))

	tree, ok := out.ValidationFailed()
	if !ok {
		t.Fatalf("state: got %s", out.State())
	}
	if msg, _ := ff.Project(tree, "avatar"); msg != "Avatar is required" {
		t.Fatalf("avatar message: %q", msg)
	}
	if len(up.names) != 0 {
		t.Fatalf("uploader called on invalid input: %v", up.names)
	}
	if diff := cmp.Diff([]submit.State{submit.StateValidating, submit.StateValidationFailed}, trail); diff != "" {
		t.Fatalf("transitions (-want +got):\n%s", diff)
	}
	if !out.State().Terminal() {
		t.Fatalf("final state must be terminal")
	}
}

func TestSubmit_UploadsOriginalNameThenCreates(t *testing.T) {
	up := &recorder{}
	raw := ff.RawInput{"name": "ana maria", "avatar": ff.AssetFromBytes("me.png", []byte("png-bytes"))}
	var trail []submit.State
	out := submit.Submit(context.Background(), avatarSchema(), raw, up,
		submit.WithObserver(func(_, to submit.State) { trail = append(trail, to) }))

	rec, ok := out.Created()
	if !ok {
		t.Fatalf("state: got %s err=%v", out.State(), out.Err())
	}
	if rec.String("name") != "Ana Maria" {
		t.Fatalf("record should be transformed: %q", rec.String("name"))
	}
	if diff := cmp.Diff([]string{"me.png"}, up.names); diff != "" {
		t.Fatalf("uploaded names (-want +got):\n%s", diff)
	}
	if string(up.data[0]) != "png-bytes" {
		t.Fatalf("uploaded content: %q", up.data[0])
	}
	want := []submit.State{submit.StateValidating, submit.StateUploading, submit.StateCreated}
	if diff := cmp.Diff(want, trail); diff != "" {
		t.Fatalf("transitions (-want +got):\n%s", diff)
	}
}

func TestSubmit_UploadFailureIsSideEffect(t *testing.T) {
	boom := errors.New("storage down")
	up := submit.UploadFunc(func(context.Context, string, []byte) error { return boom })
	raw := ff.RawInput{"name": "ana", "avatar": ff.AssetFromBytes("me.png", []byte("x"))}

	out := submit.Submit(context.Background(), avatarSchema(), raw, up)
	se, ok := out.SideEffectFailed()
	if !ok {
		t.Fatalf("state: got %s", out.State())
	}
	if !errors.Is(out.Err(), boom) {
		t.Fatalf("reason should wrap the upload error: %v", out.Err())
	}
	if se.Field != "avatar" || se.Asset != "me.png" {
		t.Fatalf("side effect: %+v", se)
	}
	if _, created := out.Created(); created {
		t.Fatalf("record must be discarded")
	}
	if _, invalid := out.ValidationFailed(); invalid {
		t.Fatalf("upload failure is not a validation failure")
	}
}

func TestSubmit_NoAssetSkipsUploading(t *testing.T) {
	s := ff.Object().Field(ff.Text("name").Require("")).MustBuild()
	var trail []submit.State
	out := submit.Submit(context.Background(), s, ff.RawInput{"name": "x"}, nil,
		submit.WithObserver(func(_, to submit.State) { trail = append(trail, to) }))
	if _, ok := out.Created(); !ok {
		t.Fatalf("state: got %s", out.State())
	}
	if diff := cmp.Diff([]submit.State{submit.StateValidating, submit.StateCreated}, trail); diff != "" {
		t.Fatalf("transitions (-want +got):\n%s", diff)
	}
}

func TestSubmit_UploadsAssetsInsideListItems(t *testing.T) {
	doc := ff.Object().Field(ff.File("doc").Require("Document is required")).MustBuild()
	s := ff.Object().
		Field(ff.File("avatar")).
		Field(ff.List("docs", doc)).
		MustBuild()
	raw := ff.RawInput{
		"avatar": ff.AssetFromBytes("me.png", []byte("a")),
		"docs": []ff.RawInput{
			{"doc": ff.AssetFromBytes("cv.pdf", []byte("b"))},
			{"doc": ff.AssetFromBytes("id.pdf", []byte("c"))},
		},
	}

	up := &recorder{}
	out := submit.Submit(context.Background(), s, raw, up)
	if _, ok := out.Created(); !ok {
		t.Fatalf("state: got %s err=%v", out.State(), out.Err())
	}
	if diff := cmp.Diff([]string{"me.png", "cv.pdf", "id.pdf"}, up.names); diff != "" {
		t.Fatalf("uploaded names (-want +got):\n%s", diff)
	}

	failing := submit.UploadFunc(func(_ context.Context, name string, _ []byte) error {
		if name == "id.pdf" {
			return errors.New("storage down")
		}
		return nil
	})
	out = submit.Submit(context.Background(), s, raw, failing)
	se, ok := out.SideEffectFailed()
	if !ok {
		t.Fatalf("state: got %s", out.State())
	}
	if se.Field != "docs[1].doc" || se.Asset != "id.pdf" {
		t.Fatalf("side effect: %+v", se)
	}
}

func TestSubmit_MissingUploader(t *testing.T) {
	raw := ff.RawInput{"name": "ana", "avatar": ff.AssetFromBytes("me.png", []byte("x"))}
	out := submit.Submit(context.Background(), avatarSchema(), raw, nil)
	if !errors.Is(out.Err(), submit.ErrNoUploader) {
		t.Fatalf("want ErrNoUploader, got %v", out.Err())
	}
}

func TestSubmit_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	up := &recorder{}
	raw := ff.RawInput{"name": "ana", "avatar": ff.AssetFromBytes("me.png", []byte("x"))}
	out := submit.Submit(ctx, avatarSchema(), raw, up)
	if !errors.Is(out.Err(), context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", out.Err())
	}
	if len(up.names) != 0 {
		t.Fatalf("nothing should be uploaded after cancel")
	}
}

func TestForm_RefusesConcurrentSubmit(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	up := submit.UploadFunc(func(context.Context, string, []byte) error {
		close(entered)
		<-unblock
		return nil
	})
	form := submit.NewForm(avatarSchema(), up)
	raw := ff.RawInput{"name": "ana", "avatar": ff.AssetFromBytes("me.png", []byte("x"))}

	done := make(chan submit.Outcome, 1)
	go func() {
		out, err := form.Submit(context.Background(), raw)
		if err != nil {
			t.Errorf("first submit: %v", err)
		}
		done <- out
	}()
	<-entered

	if !form.InFlight() {
		t.Fatalf("form should report an attempt in flight")
	}
	if _, err := form.Submit(context.Background(), raw); !errors.Is(err, submit.ErrSubmissionInFlight) {
		t.Fatalf("second submit: want ErrSubmissionInFlight, got %v", err)
	}
	close(unblock)
	if out := <-done; out.State() != submit.StateCreated {
		t.Fatalf("first submit: got %s", out.State())
	}
	if form.InFlight() {
		t.Fatalf("slot should be released")
	}
}

func TestStateString(t *testing.T) {
	cases := map[submit.State]string{
		submit.StateIdle:             "idle",
		submit.StateUploading:        "uploading",
		submit.StateSideEffectFailed: "side_effect_failed",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Fatalf("%d: got %q want %q", s, s.String(), want)
		}
	}
	if submit.StateValidating.Terminal() {
		t.Fatalf("validating is not terminal")
	}
}
