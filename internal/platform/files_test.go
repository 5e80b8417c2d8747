package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	// Create temporary directory for testing
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Normal Title", "Normal Title"},
		{"AC/DC: Back in Black?", "AC_DC_ Back in Black_"},
		{"  spaced...  ", "spaced"},
		{"tab\tand\nnewline", "tab_and_newline"},
		{"", DefaultFileName},
		{"...", DefaultFileName},
		{"Привет мир", "Привет мир"},
	}

	for _, test := range tests {
		result := SanitizeFileName(test.in)
		if result != test.expected {
			t.Errorf("SanitizeFileName(%q) = %q, expected %q", test.in, result, test.expected)
		}
	}

	long := SanitizeFileName(strings.Repeat("a", 400))
	if len([]rune(long)) != MaxFileNameLength {
		t.Errorf("Expected long names to be cut to %d runes, got %d", MaxFileNameLength, len([]rune(long)))
	}
}

type recordedCommand struct {
	name string
	args []string
}

func newRecordingShell(goos string, calls *[]recordedCommand) *Shell {
	return &Shell{
		goos: goos,
		run: func(name string, args ...string) error {
			*calls = append(*calls, recordedCommand{name: name, args: args})
			return nil
		},
	}
}

func TestShell_RevealAndOpen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(file, []byte("data"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	tests := []struct {
		goos       string
		revealName string
		openName   string
	}{
		{OSDarwin, OpenCommand, OpenCommand},
		{OSWindows, ExplorerCommand, CmdCommand},
		{OSLinux, XDGOpenCommand, XDGOpenCommand},
	}

	for _, test := range tests {
		var calls []recordedCommand
		shell := newRecordingShell(test.goos, &calls)

		if err := shell.RevealFile(file); err != nil {
			t.Fatalf("%s: RevealFile failed: %v", test.goos, err)
		}
		if err := shell.OpenFile(file); err != nil {
			t.Fatalf("%s: OpenFile failed: %v", test.goos, err)
		}

		if len(calls) != 2 {
			t.Fatalf("%s: expected 2 commands, got %d", test.goos, len(calls))
		}
		if calls[0].name != test.revealName {
			t.Errorf("%s: reveal used %s, expected %s", test.goos, calls[0].name, test.revealName)
		}
		if calls[1].name != test.openName {
			t.Errorf("%s: open used %s, expected %s", test.goos, calls[1].name, test.openName)
		}
	}
}

func TestShell_LinuxRevealOpensDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	var calls []recordedCommand
	shell := newRecordingShell(OSLinux, &calls)
	if err := shell.RevealFile(file); err != nil {
		t.Fatalf("RevealFile failed: %v", err)
	}

	absDir, _ := filepath.Abs(dir)
	if len(calls) != 1 || calls[0].args[0] != absDir {
		t.Errorf("Expected xdg-open on %s, got %+v", absDir, calls)
	}
}

func TestShell_NonExistentFile(t *testing.T) {
	var calls []recordedCommand
	shell := newRecordingShell(OSLinux, &calls)

	err := shell.OpenFile(filepath.Join(t.TempDir(), "nonexistent.txt"))
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "file does not exist") {
		t.Errorf("Error message should contain 'file does not exist', got: %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("No command should run for a missing file, got %d", len(calls))
	}
}

func TestShell_UnsupportedOS(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.mp4")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	var calls []recordedCommand
	shell := newRecordingShell("plan9", &calls)
	if err := shell.RevealFile(file); err == nil {
		t.Error("Expected error for unsupported OS")
	}
}
