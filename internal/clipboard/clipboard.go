package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrToolNotFound means no platform clipboard tool is available.
var ErrToolNotFound = errors.New("clipboard tool not found")

// ErrNothingToCopy reports a copy attempt with empty content, e.g. a
// ticket without comments.
var ErrNothingToCopy = errors.New("nothing to copy")

type Command struct {
	Path string
	Args []string
}

// SelectCommand picks the clipboard writer for the platform. lookPath
// is injectable for tests.
func SelectCommand(goos string, lookPath func(string) (string, error)) (Command, error) {
	switch goos {
	case "darwin":
		path, err := lookPath("pbcopy")
		if err != nil {
			return Command{}, ErrToolNotFound
		}
		return Command{Path: path}, nil
	case "linux":
		if path, err := lookPath("wl-copy"); err == nil {
			return Command{Path: path}, nil
		}
		if path, err := lookPath("xclip"); err == nil {
			return Command{Path: path, Args: []string{"-selection", "clipboard"}}, nil
		}
		if path, err := lookPath("xsel"); err == nil {
			return Command{Path: path, Args: []string{"--clipboard", "--input"}}, nil
		}
		return Command{}, ErrToolNotFound
	case "windows":
		path, err := lookPath("clip")
		if err != nil {
			return Command{}, ErrToolNotFound
		}
		return Command{Path: path}, nil
	default:
		return Command{}, ErrToolNotFound
	}
}

// Copy writes text to the system clipboard through the platform tool.
func Copy(ctx context.Context, text string) error {
	if text == "" {
		return ErrNothingToCopy
	}

	cmdDef, err := SelectCommand(runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, cmdDef.Path, cmdDef.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("clipboard stdin: %w", err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start clipboard command: %w", err)
	}

	_, writeErr := stdin.Write([]byte(text))
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return fmt.Errorf("write clipboard data: %w", writeErr)
	}
	if waitErr != nil {
		return fmt.Errorf("clipboard command failed: %w", waitErr)
	}
	return nil
}
