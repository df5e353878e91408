package export

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/Gor-c/emind/pkg/errors"
)

// Future is the pending result of [Decode]. It resolves exactly once, with
// an image or an error.
type Future struct {
	done chan struct{}
	once sync.Once
	img  image.Image
	err  error
}

func (f *Future) resolve(img image.Image, err error) {
	f.once.Do(func() {
		f.img, f.err = img, err
		close(f.done)
	})
}

// Done is closed once the future has resolved.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the future resolves or ctx ends.
func (f *Future) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-f.done:
		return f.img, f.err
	case <-ctx.Done():
		return nil, errors.Wrap(errors.ErrCodeExportDecode, ctx.Err(), "wait for decode")
	}
}

// Decode starts rasterizing doc in the background. The future fails with
// [errors.ErrCodeExportDecode] if the rasterizer errors, returns no image,
// or has not finished when timeout elapses or ctx ends. A zero timeout
// relies on ctx alone.
func Decode(ctx context.Context, doc []byte, r Rasterizer, scale float64, timeout time.Duration) *Future {
	f := &Future{done: make(chan struct{})}
	var (
		dctx   context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		dctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		dctx, cancel = context.WithCancel(ctx)
	}

	go func() {
		defer cancel()
		img, err := r.Rasterize(dctx, doc, scale)
		if err == nil && img == nil {
			err = fmt.Errorf("rasterizer returned no image")
		}
		if err != nil {
			f.resolve(nil, errors.Wrap(errors.ErrCodeExportDecode, err, "decode %d byte document", len(doc)))
			return
		}
		f.resolve(img, nil)
	}()

	// A rasterizer that ignores its context still cannot hold the future.
	go func() {
		select {
		case <-dctx.Done():
			f.resolve(nil, errors.Wrap(errors.ErrCodeExportDecode, dctx.Err(), "decode did not complete"))
		case <-f.done:
		}
	}()
	return f
}
