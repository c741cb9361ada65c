package remux

import "context"

// Remuxer copies the streams of a media file into an MP4 container
type Remuxer interface {
	Remux(ctx context.Context, inputPath, outputPath string, duration float64, onProgress func(float64)) error
}

// Prober reads the duration of a media file in seconds
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}
