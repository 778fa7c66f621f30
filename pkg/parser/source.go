package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadLog reads a whole log file. Line endings are normalized to "\n".
func ReadLog(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return "", fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	text, err := readLines(ctx, f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return text, nil
}

// readLines reads r line by line with no limit on line length, since
// max_print_line can be raised arbitrarily. ctx is checked between lines.
func readLines(ctx context.Context, r io.Reader) (string, error) {
	reader := bufio.NewReader(r)

	var b strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line, err := reader.ReadString('\n')
		b.WriteString(line)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSuffix(NormalizeNewlines(b.String()), "\n"), nil
}
