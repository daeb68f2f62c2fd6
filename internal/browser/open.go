package browser

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Open opens the URL in the user's preferred browser. A non-empty BROWSER
// environment variable wins over the platform default.
func Open(url string) error {
	name, args, err := launcher(url)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

func launcher(url string) (string, []string, error) {
	if b := os.Getenv("BROWSER"); b != "" {
		return b, []string{url}, nil
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{url}, nil
	case "linux":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
