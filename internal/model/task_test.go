package model

import (
	"testing"
	"time"
)

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title    string
		id       string
		path     string
		expected string
	}{
		{"Video Title", "abc", "", "Video Title"},
		{"", "abc", "/tmp/Some_File.mp3", "Some_File"},
		{"https://youtube.com/watch?v=abc", "abc", "", "https://www.youtube.com/watch?v=abc"},
		{"", "", "", ""},
	}

	for _, test := range tests {
		task := &DownloadTask{
			Video:    Video{ID: test.id, Title: test.title},
			FilePath: test.path,
		}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with title='%s', id='%s', path='%s' = '%s', expected '%s'",
				test.title, test.id, test.path, result, test.expected)
		}
	}
}

func TestDownloadTask_GetStatusText(t *testing.T) {
	tests := []struct {
		task     DownloadTask
		expected string
	}{
		{DownloadTask{State: TaskStateIdle}, "Idle"},
		{DownloadTask{State: TaskStateActive, Percent: 42}, "Active 42%"},
		{DownloadTask{State: TaskStateFailed, FailReason: "disk full"}, "Failed: disk full"},
		{DownloadTask{State: TaskStateFailed}, "Failed"},
		{DownloadTask{State: TaskStateSucceeded}, "Succeeded"},
	}

	for _, test := range tests {
		result := test.task.GetStatusText()
		if result != test.expected {
			t.Errorf("GetStatusText() = %q, expected %q", result, test.expected)
		}
	}
}

func TestDownloadTask_Elapsed(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	task := &DownloadTask{StartedAt: start, FinishedAt: start.Add(30 * time.Second)}
	if task.Elapsed() != 30*time.Second {
		t.Errorf("Expected 30s elapsed, got %v", task.Elapsed())
	}

	empty := &DownloadTask{}
	if empty.Elapsed() != 0 {
		t.Errorf("Expected zero elapsed for a task never started, got %v", empty.Elapsed())
	}
}

func TestFormat(t *testing.T) {
	if FormatMP3.Extension() != ".mp3" {
		t.Errorf("Expected .mp3, got %s", FormatMP3.Extension())
	}
	if !FormatOGG.IsAudioOnly() {
		t.Error("ogg should be audio only")
	}
	if FormatMP4.IsAudioOnly() {
		t.Error("mp4 should not be audio only")
	}
}

func TestVideo_URLAndTitle(t *testing.T) {
	v := Video{ID: "dQw4w9WgXcQ"}
	if v.URL() != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("Unexpected URL: %s", v.URL())
	}
	if v.DisplayTitle() != "dQw4w9WgXcQ" {
		t.Errorf("Expected id as display title, got %s", v.DisplayTitle())
	}
}
