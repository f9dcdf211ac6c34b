package resxsweep

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ScanReferences removes from keys every key that is referenced in at least
// one of files: some reference format, with its placeholder replaced by the
// key, occurs in the file's text. What is left in keys afterwards is the
// unused set.
//
// Each file is read once. Scanning stops early once keys is empty. A file
// that cannot be read is a *FileError.
func ScanReferences(keys KeySet, files, formats []string, mode MatchMode) error {
	for _, path := range files {
		if keys.Len() == 0 {
			return nil
		}
		text, err := readSource(path)
		if err != nil {
			return &FileError{Op: "read source file", Path: path, Err: err}
		}
		removeFoundKeys(keys, text, formats, mode)
	}
	return nil
}

// removeFoundKeys drops the keys referenced in text and returns how many
// were dropped. Keys are checked in sorted order, format by format.
func removeFoundKeys(keys KeySet, text string, formats []string, mode MatchMode) int {
	found := 0
	for _, format := range formats {
		for _, key := range keys.Sorted() {
			if containsReference(text, Expand(format, key), mode) {
				delete(keys, key)
				found++
			}
		}
	}
	return found
}

// Expand substitutes key for the placeholder in a reference format.
func Expand(format, key string) string {
	return strings.ReplaceAll(format, Placeholder, key)
}

func containsReference(text, needle string, mode MatchMode) bool {
	if mode == MatchWord {
		return containsWord(text, needle)
	}
	return strings.Contains(text, needle)
}

// containsWord reports whether needle occurs in text without running into
// an adjacent identifier. A side is only checked when needle itself starts
// (or ends) with an identifier character, so "AppResources.Hello" is found
// in "(AppResources.Hello)" but not in "AppResources.HelloWorld".
func containsWord(text, needle string) bool {
	if needle == "" {
		return true
	}
	first, _ := utf8.DecodeRuneInString(needle)
	last, _ := utf8.DecodeLastRuneInString(needle)
	checkBefore, checkAfter := isIdentRune(first), isIdentRune(last)

	for offset := 0; offset <= len(text)-len(needle); {
		i := strings.Index(text[offset:], needle)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(needle)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (!checkBefore || start == 0 || !isIdentRune(before)) &&
			(!checkAfter || end == len(text) || !isIdentRune(after)) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// readSource returns a file's text. UTF-8 is assumed unless the file starts
// with a UTF-16 or UTF-8 byte order mark; invalid bytes decode to U+FFFD.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - paths come from ListFiles
	if err != nil {
		return "", err
	}
	decoded, _, err := transform.Bytes(xunicode.BOMOverride(xunicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(decoded), nil
}
