package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"expenses/internal/core"
)

// LoadCategories builds a registry from a file with one category per line
// in the form "Name|icon|color". Icon and color are optional. Blank lines
// and lines starting with # are skipped; repeated names keep the first
// occurrence. An empty path returns the built-in registry.
func LoadCategories(path string) (*core.Registry, error) {
	if path == "" {
		return core.DefaultRegistry(), nil
	}
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	cats := make([]core.Category, 0, len(lines))
	for _, line := range lines {
		c := parseCategory(line)
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		cats = append(cats, c)
	}

	registry, err := core.NewRegistry(cats...)
	if err != nil {
		return nil, fmt.Errorf("categories file %s: %w", path, err)
	}
	return registry, nil
}

func parseCategory(line string) core.Category {
	parts := strings.SplitN(line, "|", 3)
	c := core.Category{Name: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		c.Icon = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		c.Color = strings.TrimSpace(parts[2])
	}
	return c
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open categories file: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}
	return out, nil
}
