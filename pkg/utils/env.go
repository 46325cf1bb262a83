package utils

import (
	"os"
	"strconv"
)

// Env returns the value of an environment variable, or def when it is unset
// or blank.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvInt parses an environment variable as a positive integer, falling back
// to def when unset, unparsable, or not positive.
func EnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
