package gitwork

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Git runs git in the current working directory.
type Git struct{}

// Checkout creates and switches to branch, tracking origin when given.
func (Git) Checkout(ctx context.Context, branch, origin string) error {
	args := []string{"checkout", "-b", branch}
	if origin != "" {
		args = append(args, origin)
	}
	return run(ctx, args...)
}

// Commit records a commit with the given message.
func (Git) Commit(ctx context.Context, message string, noVerify bool) error {
	args := []string{"commit", "-m", message}
	if noVerify {
		args = append(args, "--no-verify")
	}
	return run(ctx, args...)
}

func run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %v: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
