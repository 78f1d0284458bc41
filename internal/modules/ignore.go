package modules

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFile lists file name patterns, one per line, that automatic
// discovery skips. Modules named explicitly in the config are loaded
// regardless.
const IgnoreFile = ".ignore"

// ignoreList holds the patterns read from IgnoreFile.
type ignoreList []string

// readIgnore parses dir/IgnoreFile. A missing file yields an empty list.
func readIgnore(dir string) (ignoreList, error) {
	f, err := os.Open(filepath.Join(dir, IgnoreFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var list ignoreList
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		pattern := parseIgnoreLine(scanner.Text())
		if pattern == "" || seen[pattern] {
			continue
		}
		// Reject bad patterns up front; filepath.Match only reports them
		// when a name reaches the bad part.
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("%s:%d: bad pattern %q", IgnoreFile, n, pattern)
		}
		seen[pattern] = true
		list = append(list, pattern)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// parseIgnoreLine returns the pattern on line, or "" for blanks and
// comments. Only base names are matched, so a leading slash is dropped.
func parseIgnoreLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}
	line = strings.TrimPrefix(line, "/")
	if strings.HasSuffix(line, ".go") || strings.ContainsAny(line, "*?[") {
		return line
	}
	return line + ".go"
}

func (l ignoreList) match(name string) bool {
	for _, p := range l {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
