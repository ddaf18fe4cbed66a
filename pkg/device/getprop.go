package device

import (
	"bufio"
	"strings"
)

/*
Parse "getprop" output, one "[key]: [value]" pair per line.
List values are comma separated
*/
func ParseGetPropOutput(data string) map[string][]string {
	props := map[string][]string{}

	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "[") {
			continue
		}

		sep := strings.Index(line, "]: [")
		if sep < 0 || !strings.HasSuffix(line, "]") {
			continue
		}

		key := line[1:sep]
		value := strings.TrimSpace(line[sep+len("]: [") : len(line)-1])
		if value == "" {
			props[key] = nil
			continue
		}
		props[key] = strings.Split(value, ",")
	}
	return props
}

const featurePrefix = "feature:"

// ParseFeatures parses "pm list features" output
func ParseFeatures(data string) []string {
	var features []string

	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, featurePrefix) {
			continue
		}

		feature := strings.TrimPrefix(line, featurePrefix)
		// e.g. feature:android.hardware.vulkan.level=1
		if idx := strings.Index(feature, "="); idx >= 0 {
			feature = feature[:idx]
		}
		features = append(features, feature)
	}
	return features
}
