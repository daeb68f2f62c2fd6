package main

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/NexAgentsAI/NexAgents/internal/browser"
)

const releaseURL = "https://api.github.com/repos/NexAgentsAI/NexAgents/releases/latest"

type ghRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// isNewerVersion returns true if latest is a newer semver than current.
func isNewerVersion(latest, current string) bool {
	parse := func(v string) (int, int, int) {
		v = strings.TrimPrefix(v, "v")
		parts := strings.SplitN(v, ".", 3)
		atoi := func(s string) int {
			n, _ := strconv.Atoi(s) //nolint:errcheck // zero-value on parse failure is desired
			return n
		}
		var maj, min, patch int
		if len(parts) > 0 {
			maj = atoi(parts[0])
		}
		if len(parts) > 1 {
			min = atoi(parts[1])
		}
		if len(parts) > 2 {
			patch = atoi(parts[2])
		}
		return maj, min, patch
	}
	lMaj, lMin, lPatch := parse(latest)
	cMaj, cMin, cPatch := parse(current)
	if lMaj != cMaj {
		return lMaj > cMaj
	}
	if lMin != cMin {
		return lMin > cMin
	}
	return lPatch > cPatch
}

func runUpdate() error {
	if version == "dev" {
		fmt.Println("dev build — install a release to enable updates")
		return nil
	}

	// Resolve the real binary path (follow symlinks).
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("runUpdate: find executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("runUpdate: resolve symlinks: %w", err)
	}

	// Fetch latest release from GitHub.
	httpClient := &http.Client{Timeout: 15 * time.Second}
	resp, err := httpClient.Get(releaseURL)
	if err != nil {
		return fmt.Errorf("runUpdate: check for updates: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("runUpdate: GitHub API returned %s", resp.Status)
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return fmt.Errorf("runUpdate: parse release: %w", err)
	}

	latestVersion := strings.TrimPrefix(release.TagName, "v")
	currentVersion := strings.TrimPrefix(version, "v")
	if !isNewerVersion(latestVersion, currentVersion) {
		printAlreadyCurrent("v" + currentVersion)
		return nil
	}

	// Find the right asset for this platform.
	tarballName := fmt.Sprintf("nexagents_%s_%s.tar.gz", runtime.GOOS, runtime.GOARCH)
	var tarballURL, checksumsURL string
	for _, a := range release.Assets {
		switch a.Name {
		case tarballName:
			tarballURL = a.BrowserDownloadURL
		case "checksums.txt":
			checksumsURL = a.BrowserDownloadURL
		}
	}
	if tarballURL == "" {
		return fmt.Errorf("runUpdate: no asset %s in release %s", tarballName, release.TagName)
	}

	// Download to temp dir.
	tmpDir, err := os.MkdirTemp("", "nexagents-update-*")
	if err != nil {
		return fmt.Errorf("runUpdate: create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	tarballPath := filepath.Join(tmpDir, tarballName)
	if err := downloadFile(httpClient, tarballURL, tarballPath); err != nil {
		return fmt.Errorf("runUpdate: download tarball: %w", err)
	}

	// Verify checksum (mandatory).
	if checksumsURL == "" {
		return fmt.Errorf("runUpdate: release missing checksums.txt — aborting update")
	}
	checksumsPath := filepath.Join(tmpDir, "checksums.txt")
	if err := downloadFile(httpClient, checksumsURL, checksumsPath); err != nil {
		return fmt.Errorf("runUpdate: download checksums: %w", err)
	}
	if err := verifyChecksum(tarballPath, checksumsPath, tarballName); err != nil {
		return fmt.Errorf("runUpdate: %w", err)
	}

	// Extract the nexagents binary from the tarball.
	newBinaryPath := filepath.Join(tmpDir, "nexagents")
	if err := extractBinary(tarballPath, newBinaryPath); err != nil {
		return fmt.Errorf("runUpdate: extract: %w", err)
	}

	// Atomic replace: write to .new, then rename over the original.
	stagePath := execPath + ".new"
	defer os.Remove(stagePath) //nolint:errcheck

	src, err := os.Open(newBinaryPath)
	if err != nil {
		return fmt.Errorf("runUpdate: open extracted binary: %w", err)
	}
	defer src.Close() //nolint:errcheck

	dst, err := os.OpenFile(stagePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied writing to %s — try with sudo", filepath.Dir(execPath))
		}
		return fmt.Errorf("runUpdate: create staged binary: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close() //nolint:errcheck
		return fmt.Errorf("runUpdate: write staged binary: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("runUpdate: close staged binary: %w", err)
	}

	if err := os.Rename(stagePath, execPath); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied replacing %s — try with sudo", execPath)
		}
		return fmt.Errorf("runUpdate: replace binary: %w", err)
	}

	// Re-exec into the NEW binary so its updated code renders the success message.
	// The running process still has the old code in memory after os.Rename.
	execErr := syscall.Exec(execPath, []string{"nexagents", "--update-done", "v" + currentVersion, "v" + latestVersion}, os.Environ())
	if execErr != nil {
		// Fallback if exec fails (e.g., Windows).
		printUpdateSuccess("v"+currentVersion, "v"+latestVersion)
	}
	return nil
}

func downloadFile(client *http.Client, url, dest string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %s from %s", resp.Status, url)
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()                   //nolint:errcheck
	const maxDownloadSize = 100 << 20 // 100 MB
	_, err = io.Copy(f, io.LimitReader(resp.Body, maxDownloadSize))
	return err
}

func verifyChecksum(filePath, checksumsPath, fileName string) error {
	data, err := os.ReadFile(checksumsPath)
	if err != nil {
		return fmt.Errorf("read checksums: %w", err)
	}
	var expected string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, fileName) {
			parts := strings.Fields(line)
			if len(parts) >= 1 {
				expected = parts[0]
				break
			}
		}
	}
	if expected == "" {
		return fmt.Errorf("no checksum found for %s", fileName)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close() //nolint:errcheck

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash file: %w", err)
	}
	actual := hex.EncodeToString(h.Sum(nil))
	if actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

func extractBinary(tarballPath, dest string) error {
	f, err := os.Open(tarballPath)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("gzip reader: %w", err)
	}
	defer gz.Close() //nolint:errcheck

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("tar read: %w", err)
		}
		// Only extract the nexagents binary; ignore everything else.
		if filepath.Base(hdr.Name) == "nexagents" && hdr.Typeflag == tar.TypeReg {
			out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
			if err != nil {
				return err
			}
			const maxBinarySize = 200 << 20 // 200 MB
			if _, err := io.Copy(out, io.LimitReader(tr, maxBinarySize)); err != nil {
				out.Close() //nolint:errcheck
				return err
			}
			return out.Close()
		}
	}
	return fmt.Errorf("nexagents binary not found in tarball")
}

func openSite(url string) error {
	if err := browser.Open(url); err != nil {
		fmt.Println(url)
	}
	return nil
}
