package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
	WindowsCmdFlag     = "/c"
)

// File name constants
const (
	MaxFileNameLength   = 150
	DefaultFileName     = "video"
	FileNameReplacement = '_'
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// runner starts an external command; replaced in tests
type runner func(name string, args ...string) error

func runCommand(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Shell reveals and opens files with the tools of the current OS
type Shell struct {
	goos string
	run  runner
}

// NewShell creates a shell for the running OS
func NewShell() *Shell {
	return &Shell{goos: runtime.GOOS, run: runCommand}
}

// RevealFile opens the system file manager with the file selected
func (s *Shell) RevealFile(filePath string) error {
	absPath, err := existingAbsPath(filePath)
	if err != nil {
		return err
	}

	switch s.goos {
	case OSDarwin:
		return s.run(OpenCommand, MacOSSelectFlag, absPath)
	case OSWindows:
		return s.run(ExplorerCommand, WindowsSelectParam, absPath)
	case OSLinux:
		return s.revealLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", s.goos)
	}
}

// revealLinux opens the directory containing the file.
// File selection is not standardized on Linux.
func (s *Shell) revealLinux(filePath string) error {
	dir := filepath.Dir(filePath)

	if err := s.run(XDGOpenCommand, dir); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return s.run(fm, dir)
		}
	}

	return fmt.Errorf("no suitable file manager found")
}

// OpenFile opens the file with the default system application
func (s *Shell) OpenFile(filePath string) error {
	absPath, err := existingAbsPath(filePath)
	if err != nil {
		return err
	}

	switch s.goos {
	case OSDarwin:
		return s.run(OpenCommand, absPath)
	case OSWindows:
		return s.run(CmdCommand, WindowsCmdFlag, StartCommand, "", absPath)
	case OSLinux:
		return s.run(XDGOpenCommand, absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", s.goos)
	}
}

func existingAbsPath(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path is empty")
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return "", fmt.Errorf("file does not exist: %w", err)
	}
	return absPath, nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// SanitizeFileName turns a video title into a portable file name (without
// extension): path separators, reserved and control characters are replaced.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == utf8.RuneError, unicode.IsControl(r), strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune(FileNameReplacement)
		default:
			b.WriteRune(r)
		}
	}

	// Trailing dots and spaces are invalid on Windows
	clean := strings.TrimRight(strings.TrimSpace(b.String()), ". ")
	if clean == "" {
		return DefaultFileName
	}

	if utf8.RuneCountInString(clean) > MaxFileNameLength {
		clean = strings.TrimSpace(string([]rune(clean)[:MaxFileNameLength]))
	}
	return clean
}
