package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// LogEntry is one parsed line of the JSON log.
type LogEntry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	Page      string         `json:"page,omitempty"`
	Attrs     map[string]any `json:"-"`
}

// LogFilter selects log entries. Zero values disable a criterion.
type LogFilter struct {
	// Level keeps entries at or above this level.
	Level           string
	Since           time.Time
	Component       string
	MessageContains string
}

var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ReadLogs parses every JSON line of the log file at path in file order.
// Lines that are not valid JSON are skipped.
func ReadLogs(path string) ([]LogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file at %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []LogEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseLogEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}
	return entries, nil
}

func parseLogEntry(line string) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{}, err
	}

	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return LogEntry{}, err
	}

	for _, known := range []string{"time", "level", "msg", "component", "page"} {
		delete(raw, known)
	}
	if len(raw) > 0 {
		entry.Attrs = raw
	}
	return entry, nil
}

// FilterLogs returns the entries matching every set criterion of filter.
func FilterLogs(entries []LogEntry, filter LogFilter) []LogEntry {
	minLevel := -1
	if filter.Level != "" {
		minLevel = levelOrder[ParseLevel(filter.Level)]
	}

	var out []LogEntry
	for _, e := range entries {
		if minLevel >= 0 && levelOrder[ParseLevel(e.Level)] < minLevel {
			continue
		}
		if !filter.Since.IsZero() && e.Time.Before(filter.Since) {
			continue
		}
		if filter.Component != "" && e.Component != filter.Component {
			continue
		}
		if filter.MessageContains != "" && !strings.Contains(strings.ToLower(e.Message), strings.ToLower(filter.MessageContains)) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// String renders an entry as a single human-readable line.
func (e LogEntry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Time.Format("2006-01-02 15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(fmt.Sprintf("%-5s", e.Level))
	if e.Component != "" {
		sb.WriteString(" [" + e.Component + "]")
	}
	sb.WriteString(" " + e.Message)
	for k, v := range e.Attrs {
		sb.WriteString(fmt.Sprintf(" %s=%v", k, v))
	}
	return sb.String()
}
