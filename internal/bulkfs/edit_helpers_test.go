package bulkfs

import (
	"bufio"
	"os"
	"strings"
	"time"
)

// readHeader returns the leading comment/blank lines of path, unmodified,
// so a simulated edit can rewrite just the body without disturbing the
// document header the Differ already knows to skip.
func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var header []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !isCommentOrBlank(line) {
			break
		}
		header = append(header, line)
	}
	return header, sc.Err()
}

// rewriteBody replaces the non-header body of the temp document at path
// with lines, simulating a user's edit in an external editor. The new
// mtime is set one second past the old one, as a real editing session
// would be; TempDoc.Mtime's whole-second resolution would otherwise see
// no edit at all.
func rewriteBody(path string, lines []string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	header, err := readHeader(path)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, h := range header {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return err
	}
	later := info.ModTime().Add(time.Second)
	return os.Chtimes(path, later, later)
}
