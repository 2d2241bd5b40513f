package viewer

import (
	"fmt"
	"os/exec"
	"runtime"
)

// SystemOpener opens a file with the platform's default handler. Page
// targeting is best effort: the common handlers take no page argument,
// so the file opens at its first page.
func SystemOpener(path string, _ int) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	// Release the handler process; its exit status is not ours to report.
	go func() { _ = cmd.Wait() }()
	return nil
}
