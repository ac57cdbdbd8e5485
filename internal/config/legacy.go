package config

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseLegacy reads key=value physics settings on top of base. Recognised
// keys are g, m1, L1, m2, L2. Blank lines and lines starting with # are
// skipped, as are lines that are not exactly key=value. Lines whose value
// does not parse are ignored and reported by line number. The last
// occurrence of a key wins. Values are not range checked here.
func ParseLegacy(r io.Reader, base PhysicsConfig) (PhysicsConfig, []int, error) {
	p := base
	var skipped []int

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			skipped = append(skipped, lineNo)
			continue
		}

		switch strings.TrimSpace(parts[0]) {
		case "g":
			p.Gravity = value
		case "m1":
			p.Mass1 = value
		case "L1":
			p.Length1 = value
		case "m2":
			p.Mass2 = value
		case "L2":
			p.Length2 = value
		}
	}
	if err := scanner.Err(); err != nil {
		return base, nil, err
	}
	return p, skipped, nil
}

// LoadLegacy opens path and parses it with ParseLegacy. A missing file is
// an error.
func LoadLegacy(path string, base PhysicsConfig) (PhysicsConfig, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, nil, err
	}
	defer f.Close()
	return ParseLegacy(f, base)
}
