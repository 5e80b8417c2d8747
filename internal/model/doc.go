package model

// Package model defines domain data structures used across the app: videos,
// resolved download options, task state and the read-only task snapshot the
// UI binds to. State changes happen only through the download package.
