package renderer

import (
	"context"
	"image"
)

// PassResult is the image and statistics of one finished pass
type PassResult struct {
	Pass   PassKind
	Image  *image.RGBA
	Stats  RenderStats
	IsLast bool
}

// RenderProgressive renders a quick preview followed by the full image in a
// goroutine, sending each result as it completes. The tracer must not be used
// until the pass channel closes. The error channel then yields nil, or the
// context error if ctx was cancelled between passes.
func (t *Tracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(errChan)
		defer close(passChan)

		t.Invalidate()
		passes := []func() bool{t.QuickRender, t.StartRender}

		for i, render := range passes {
			if err := ctx.Err(); err != nil {
				errChan <- err
				return
			}

			render()

			result := PassResult{
				Pass:   t.stats.Pass,
				Image:  t.Image(),
				Stats:  t.stats,
				IsLast: i == len(passes)-1,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}
