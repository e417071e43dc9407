package anim

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/hpgl2tek/internal/hpgl"
	"github.com/ivlev/hpgl2tek/internal/raster"
	"github.com/ivlev/hpgl2tek/internal/system"
	"github.com/ivlev/hpgl2tek/internal/tape"
	"github.com/ivlev/hpgl2tek/internal/tek"
	"github.com/ivlev/hpgl2tek/internal/video"
)

// Preview mirrors frames somewhere visible while rendering.
type Preview interface {
	ShowFrame(strokes hpgl.Strokes)
}

// RenderR12Zip renders every frame as R12 tape records and writes the
// animation archive: the player program, then one data entry per frame. The
// origin shift is applied to each frame's final point set here, the only
// path where the 10-bit wrap can corrupt output.
func (a *Animation) RenderR12Zip(w io.Writer, fileNumber int, automateDelay float64, preview Preview) error {
	n := a.FrameCount()
	aw, err := tape.NewAnimationWriter(w, fileNumber, n, automateDelay)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		t := float64(i) / a.FPS
		strokes, err := a.At(t)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		strokes, err = a.applyOriginShift(strokes, t)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		data, err := tek.ToTek4050R12(strokes)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := aw.WriteFrame(tek.TapeRecords(data)); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if preview != nil {
			preview.ShowFrame(strokes)
		}
	}
	return aw.Close()
}

// RenderR12ZipShifted renders into w, retrying with small origin shifts
// whenever a moving drawing wanders off screen. Each attempt renders into
// memory first; w only ever receives one complete archive.
func (a *Animation) RenderR12ZipShifted(w io.Writer, fileNumber int, automateDelay float64, preview Preview, policy *RetryPolicy) error {
	var buf bytes.Buffer
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		buf.Reset()
		err := a.RenderR12Zip(&buf, fileNumber, automateDelay, preview)
		if err == nil {
			_, err = w.Write(buf.Bytes())
			return err
		}
		var shiftErr *OriginShiftError
		if !errors.As(err, &shiftErr) {
			return err
		}
		a.ShiftX, a.ShiftY = policy.NextShift()
		log.Printf("[!] %v; пробуем сдвиг начала координат (%g, %g)", shiftErr, a.ShiftX, a.ShiftY)
	}
	return fmt.Errorf("animation still off screen after %d origin shifts", policy.MaxAttempts)
}

// RenderVideo rasterizes every frame and streams them to the encoder.
// Frames are rendered in parallel batches of workers goroutines, but written
// strictly in order.
func (a *Animation) RenderVideo(vw *video.Writer, workers int, preview Preview) error {
	if workers < 1 {
		workers = 1
	}
	n := a.FrameCount()
	for base := 0; base < n; base += workers {
		count := workers
		if base+count > n {
			count = n - base
		}

		frames := make([]*image.RGBA, count)
		batch := make([]hpgl.Strokes, count)
		var g errgroup.Group
		for j := 0; j < count; j++ {
			j := j
			g.Go(func() error {
				strokes, err := a.At(float64(base+j) / a.FPS)
				if err != nil {
					return fmt.Errorf("frame %d: %w", base+j, err)
				}
				img := system.GetImage(image.Rect(0, 0, raster.Width, raster.Height))
				raster.Render(img, strokes)
				frames[j] = img
				batch[j] = strokes
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for j, img := range frames {
			if err := vw.WriteFrame(img); err != nil {
				return fmt.Errorf("frame %d: %w", base+j, err)
			}
			system.PutImage(img)
			if preview != nil {
				preview.ShowFrame(batch[j])
			}
		}
	}
	return nil
}
