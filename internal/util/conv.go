package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseOptionalInt 空串返回 0
func ParseOptionalInt(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, ValidationError("%s must be a non-negative integer", name)
	}
	return n, nil
}

// ParseOptionalTime 接受 RFC3339 或 YYYY-MM-DD，空串返回 nil
func ParseOptionalTime(name, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(DateFormat, raw); err == nil {
		return &t, nil
	}
	return nil, ValidationError("%s must be an RFC3339 timestamp or YYYY-MM-DD date", name)
}
