// Package filenames derives one sparkey file's name from the other: a log
// file and its companion hash index always share a basename and differ
// only in their final suffix byte, 'l' for the log and 'i' for the index.
// Grounded on util.c's sparkey_create_log_filename and its mirror for the
// index side.
package filenames

import (
	"fmt"
	"strings"
)

const (
	// maxLen guards against absurd inputs, matching util.c's defensive
	// length check before string manipulation.
	maxLen = 10000

	logSuffix   = ".spl"
	indexSuffix = ".spi"
)

// LogFromIndex derives the log filename from a hash index filename,
// flipping the trailing 'i' to 'l'.
func LogFromIndex(indexFilename string) (string, error) {
	return flip(indexFilename, indexSuffix, 'l')
}

// IndexFromLog derives the hash index filename from a log filename,
// flipping the trailing 'l' to 'i'.
func IndexFromLog(logFilename string) (string, error) {
	return flip(logFilename, logSuffix, 'i')
}

func flip(name, suffix string, last byte) (string, error) {
	if len(name) > maxLen {
		return "", fmt.Errorf("filenames: %q exceeds max length %d", name, maxLen)
	}
	if !strings.HasSuffix(name, suffix) {
		return "", fmt.Errorf("filenames: %q does not end in %q", name, suffix)
	}
	out := []byte(name)
	out[len(out)-1] = last
	return string(out), nil
}
