package platform

// Package platform contains OS/platform integration and external tooling glue:
// filesystem helpers, playlist parsing via the ytdlp library, and OS open/reveal.
