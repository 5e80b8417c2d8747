package download

// Package download implements the download task: a small state machine that
// resolves a download option, transfers the media to disk while reporting
// progress, optionally tags the file and settles into exactly one terminal
// state per run. It also provides the Service that owns many tasks and the
// yt-dlp backed collaborators the tasks call.
