package download

import (
	"net/http"

	"github.com/ytget/yt-fetch/internal/platform"
	"github.com/ytget/yt-fetch/internal/tagging"
	"github.com/ytget/yt-fetch/internal/transcode"
)

// DefaultDependencies wires the production collaborators: the format table
// resolver, the yt-dlp transfer with ffmpeg conversion, ID3 tagging, the
// OS shell and video metadata lookup. tags and sink come from the caller.
func DefaultDependencies(quality string, tags TagPolicy, sink ProgressSink) Dependencies {
	return Dependencies{
		Resolver: NewFormatResolver(quality),
		Transfer: NewYTDLP(transcode.NewService()),
		Tagger:   tagging.NewService(&http.Client{Timeout: tagging.CoverFetchTimeout}),
		Tags:     tags,
		Progress: sink,
		Shell:    platform.NewShell(),
		Metadata: NewYTDLPMetadata(),
	}
}
