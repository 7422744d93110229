package preflight

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"tunegrab/internal/config"
)

// Result describes one startup check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Run executes every startup check for the daemon.
func Run(ctx context.Context, cfg *config.Config) []Result {
	results := []Result{
		CheckBinary(ctx, "yt-dlp", cfg.Tools.YtDlpBinary),
		CheckBinary(ctx, "ffmpeg", cfg.Tools.FFmpegBinary),
		CheckDirectoryAccess("staging directory", cfg.Paths.StagingDir),
	}
	if floor := cfg.MinFreeDiskBytes(); floor > 0 {
		results = append(results, CheckDiskSpace("staging disk space", cfg.Paths.StagingDir, floor))
	}
	return results
}

// Ok reports whether every check passed.
func Ok(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// CheckBinary verifies an external tool is installed and runnable.
func CheckBinary(ctx context.Context, name, binary string) Result {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Result{Name: name, Detail: "binary not configured"}
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s not found in PATH", binary)}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(checkCtx, path, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s --version failed (%v)", binary, err)}
	}

	version := strings.TrimSpace(firstLine(out.String()))
	if version == "" {
		version = path
	}
	return Result{Name: name, Passed: true, Detail: version}
}

// CheckDirectoryAccess verifies that the directory exists (creating it when
// missing) and is writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}

	probe := filepath.Join(path, ".write-check")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not writable: %v)", path, err)}
	}
	_ = os.Remove(probe)

	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDiskSpace verifies the filesystem backing path has at least minFree
// bytes available.
func CheckDiskSpace(name, path string, minFree uint64) Result {
	free, err := FreeBytes(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("statfs %s: %v", path, err)}
	}
	if free < minFree {
		return Result{Name: name, Detail: fmt.Sprintf("%d MiB free, need %d MiB", free>>20, minFree>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d MiB free", free>>20)}
}

// FreeBytes returns the available bytes on the filesystem backing path.
func FreeBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
