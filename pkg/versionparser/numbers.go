package versionparser

import (
	"strconv"
	"strings"
)

// separatorChars are all characters treated as a boundary between version
// components.
var separatorChars = []string{
	".", "_", "-", ":", ",", ";", "!", "?", "#", "`", "´", "=", "~", "^", "°",
	"+", "*", "/", "(", ")", "[", "]", "{", "}", "\"", "'", " ", "\t", "\n", "\r",
}

var separatorReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(separatorChars)*2)
	for _, char := range separatorChars {
		pairs = append(pairs, char, ".")
	}
	return strings.NewReplacer(pairs...)
}()

// splitVersionString normalizes all separators to dots, collapses repeated
// dots and splits the result into its components.
func splitVersionString(version string) []string {
	version = separatorReplacer.Replace(version)

	for strings.Contains(version, "..") {
		version = strings.ReplaceAll(version, "..", ".")
	}

	return strings.Split(version, ".")
}

// detectNumbers splits a raw version string into its numeric prefix, padded
// or truncated to exactly three components, and the remaining tag string.
func detectNumbers(version string) ([3]int, string) {
	var numbers [3]int

	parts := splitVersionString(version)

	consumed := 0
	for _, part := range parts {
		number, ok := parseNumber(part)
		if !ok {
			break
		}
		if consumed < len(numbers) {
			numbers[consumed] = number
		}
		consumed++
	}

	tagString := strings.Trim(strings.Join(parts[consumed:], "-"), "-")

	return numbers, tagString
}

// parseNumber accepts plain ASCII digit runs that fit into an int.
func parseNumber(part string) (int, bool) {
	if part == "" {
		return 0, false
	}
	for i := 0; i < len(part); i++ {
		if !isDigit(part[i]) {
			return 0, false
		}
	}

	number, err := strconv.Atoi(part)
	if err != nil {
		return 0, false
	}

	return number, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlphaNumeric(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
