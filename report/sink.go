package report

import (
	"context"
	"io"

	jerrors "github.com/viant/jarhc/errors"
)

// Sink receives finished reports
type Sink interface {
	Write(ctx context.Context, report *Report) error
	WriteDiff(ctx context.Context, diff *DiffReport) error
}

// WriterSink serializes reports to an io.Writer
type WriterSink struct {
	w      io.Writer
	format Format
}

// NewWriterSink creates a sink writing the given format to w
func NewWriterSink(w io.Writer, format Format) *WriterSink {
	return &WriterSink{w: w, format: format}
}

// Write implements Sink
func (s *WriterSink) Write(ctx context.Context, report *Report) error {
	return s.write(ctx, report)
}

// WriteDiff implements Sink
func (s *WriterSink) WriteDiff(ctx context.Context, diff *DiffReport) error {
	return s.write(ctx, diff)
}

func (s *WriterSink) write(ctx context.Context, value interface{}) error {
	if err := ctx.Err(); err != nil {
		return jerrors.Wrap(jerrors.SinkFailure, err, "report not written")
	}
	if err := Encode(s.w, value, s.format); err != nil {
		return jerrors.Wrap(jerrors.SinkFailure, err, "failed to write %v report", s.format)
	}
	return nil
}
