package transcode

import (
	"context"

	"github.com/ytget/yt-fetch/internal/model"
)

// Converter defines the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string, format model.Format, onProgress func(float64)) error
}
