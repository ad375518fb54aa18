// Package submit sequences a submission: validation first, then the asset
// upload side effect, then the created record.
//
// Validation strictly precedes any I/O: when the input is invalid the
// uploader is never called. An upload failure ends the attempt in
// SideEffectFailed and the record is discarded. Uploads are not retried;
// timeouts belong to the uploader.
package submit

import (
	"context"
	"errors"
	"io"
	"log/slog"

	ff "github.com/reoring/formflow"
)

// Uploader is the binary upload collaborator.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) error
}

// UploadFunc adapts a function to Uploader.
type UploadFunc func(ctx context.Context, name string, data []byte) error

// Upload calls fn.
func (fn UploadFunc) Upload(ctx context.Context, name string, data []byte) error {
	return fn(ctx, name, data)
}

// Option configures a submission.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	observer func(from, to State)
}

// WithLogger logs state transitions to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver calls fn on every state transition, synchronously.
func WithObserver(fn func(from, to State)) Option {
	return func(c *config) { c.observer = fn }
}

func newConfig(opts []Option) *config {
	c := &config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, o := range opts {
		o(c)
	}
	return c
}

// machine tracks one attempt.
type machine struct {
	cfg   *config
	state State
	log   *slog.Logger
}

func (m *machine) to(next State) {
	prev := m.state
	m.state = next
	m.log.Debug("submission transition", "from", prev.String(), "to", next.String())
	if m.cfg.observer != nil {
		m.cfg.observer(prev, next)
	}
}

// Submit runs one submission attempt. Attempts are independent: nothing
// prevents a second call while a first is uploading. Use Form for a
// single-in-flight guard.
func Submit(ctx context.Context, s *ff.Schema, raw ff.RawInput, up Uploader, opts ...Option) Outcome {
	cfg := newConfig(opts)
	m := &machine{cfg: cfg, state: StateIdle, log: cfg.logger}

	m.to(StateValidating)
	res := ff.Validate(s, raw)
	if tree, invalid := res.Invalid(); invalid {
		m.to(StateValidationFailed)
		m.log.Info("submission rejected", "errors", tree.Len())
		return Outcome{state: StateValidationFailed, errors: tree}
	}
	rec, _ := res.Valid()

	uploads := pendingUploads(s, rec)
	if len(uploads) == 0 {
		m.to(StateCreated)
		m.log.Info("submission created", "fields", rec.Len())
		return Outcome{state: StateCreated, record: rec}
	}

	m.to(StateUploading)
	for _, u := range uploads {
		if err := upload(ctx, up, u); err != nil {
			m.to(StateSideEffectFailed)
			m.log.Warn("asset upload failed", "field", u.field, "asset", u.asset.Name, "error", err)
			return Outcome{state: StateSideEffectFailed, reason: &SideEffectError{Field: u.field, Asset: u.asset.Name, Err: err}}
		}
		m.log.Debug("asset uploaded", "field", u.field, "asset", u.asset.Name, "size", u.asset.Size)
	}
	m.to(StateCreated)
	m.log.Info("submission created", "fields", rec.Len(), "uploads", len(uploads))
	return Outcome{state: StateCreated, record: rec}
}

type pending struct {
	field string
	asset ff.Asset
}

// pendingUploads lists present assets in declaration order, descending into
// list items in index order. field is the asset's path, e.g. "docs[0].doc".
func pendingUploads(s *ff.Schema, rec *ff.Record) []pending {
	return collectUploads(s, rec, ff.Root(), nil)
}

func collectUploads(s *ff.Schema, rec *ff.Record, at ff.Path, out []pending) []pending {
	for _, f := range s.Fields() {
		switch f.Kind() {
		case ff.KindAsset:
			if a, ok := rec.Asset(f.Name()); ok {
				out = append(out, pending{field: at.Field(f.Name()).String(), asset: a})
			}
		case ff.KindList:
			lf, ok := f.(*ff.ListField)
			if !ok {
				continue
			}
			for i, item := range rec.List(f.Name()) {
				out = collectUploads(lf.Item(), item, at.Field(f.Name()).Index(i), out)
			}
		}
	}
	return out
}

func upload(ctx context.Context, up Uploader, p pending) error {
	if up == nil {
		return ErrNoUploader
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := p.asset.Bytes()
	if err != nil {
		return err
	}
	return up.Upload(ctx, p.asset.Name, data)
}

// ErrSubmissionInFlight is returned by Form.Submit while an earlier attempt
// on the same form has not finished.
var ErrSubmissionInFlight = errors.New("submit: a submission is already in flight")

// Form binds a schema and an uploader and admits one submission at a time.
// A submit while another is running is refused rather than queued.
type Form struct {
	schema *ff.Schema
	up     Uploader
	opts   []Option
	slot   chan struct{}
}

// NewForm returns a guarded form.
func NewForm(s *ff.Schema, up Uploader, opts ...Option) *Form {
	return &Form{schema: s, up: up, opts: opts, slot: make(chan struct{}, 1)}
}

// Submit runs an attempt unless one is already in flight.
func (f *Form) Submit(ctx context.Context, raw ff.RawInput) (Outcome, error) {
	if !f.tryAcquire() {
		return Outcome{}, ErrSubmissionInFlight
	}
	defer f.release()
	return Submit(ctx, f.schema, raw, f.up, f.opts...), nil
}

// InFlight reports whether an attempt is running.
func (f *Form) InFlight() bool { return len(f.slot) > 0 }

func (f *Form) tryAcquire() bool {
	select {
	case f.slot <- struct{}{}:
		return true
	default:
		return false
	}
}

func (f *Form) release() { <-f.slot }
