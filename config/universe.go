package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadUniverse reads an instrument universe file: one instrument per
// line, blank lines and #-comments skipped.
func LoadUniverse(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}
	defer f.Close()

	var universe []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		universe = append(universe, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(universe) == 0 {
		return nil, fmt.Errorf("universe file %s has no instruments", path)
	}
	return universe, nil
}
