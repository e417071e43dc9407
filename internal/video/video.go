// Package video encodes rendered frames into an MP4 file through a single
// long-running ffmpeg process fed raw RGBA on stdin.
package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
)

type Writer struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	width  int
	height int
}

// NewWriter starts ffmpeg encoding a width x height video at fps into path,
// overwriting it. encoder is the h264 encoder name (libx264 or a hardware
// one).
func NewWriter(ctx context.Context, path string, width, height int, fps float64, encoder string) (*Writer, error) {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%g", fps),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", encoder,
	}
	switch encoder {
	case "h264_videotoolbox":
		args = append(args, "-b:v", "7500k")
	case "h264_nvenc":
		args = append(args, "-cq", "23")
	default: // libx264
		args = append(args, "-crf", "23", "-preset", "medium")
	}
	args = append(args, path)

	w := &Writer{width: width, height: height}
	w.cmd = exec.CommandContext(ctx, "ffmpeg", args...)
	w.cmd.Stderr = &w.stderr

	stdin, err := w.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	w.stdin = stdin

	if err := w.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return w, nil
}

// WriteFrame sends one frame. The image must match the writer's dimensions
// and use the packed stride, which is what the renderer produces.
func (w *Writer) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != w.width || b.Dy() != w.height {
		return fmt.Errorf("frame is %dx%d, writer expects %dx%d", b.Dx(), b.Dy(), w.width, w.height)
	}
	if img.Stride != w.width*4 || b.Min.X != 0 || b.Min.Y != 0 {
		return fmt.Errorf("frame must be a packed full-rect RGBA image")
	}
	if _, err := w.stdin.Write(img.Pix); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	return nil
}

// Close finishes the stream and waits for ffmpeg to exit.
func (w *Writer) Close() error {
	w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %v, output: %s", err, w.stderr.String())
	}
	return nil
}
