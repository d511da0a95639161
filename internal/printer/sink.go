package printer

import (
	"context"
	"fmt"
	"io"

	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
)

// Sink is where finalized receipts go. Fire-and-forget: a sink failure is
// surfaced and not retried, and never touches the recorded sale.
type Sink interface {
	Print(ctx context.Context, doc string) error
}

// WriterSink prints receipts to any writer, typically the terminal itself.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Print(ctx context.Context, doc string) error {
	if s == nil || s.w == nil {
		return pkgerrors.New(pkgerrors.CodeSinkUnavailable, "no print destination configured")
	}
	if _, err := fmt.Fprint(s.w, doc); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeSinkUnavailable, err, "writing receipt")
	}
	return nil
}
