// Package sperrors defines sparkey's closed error taxonomy.
//
// Errors from the log and hash packages are one of the sentinels below
// (or a wrap of one, via fmt.Errorf("...: %w", ...)), so callers can
// recover the underlying kind with errors.Is. The filenames helpers and
// the hash builder's fallocate step return plain errors outside this set.
package sperrors

import (
	"errors"
	"syscall"
)

var (
	// Internal is the opaque fallback for unmapped OS errors or
	// compressor failures.
	Internal = errors.New("internal error")

	// Filesystem errors.
	FileNotFound      = errors.New("file not found")
	PermissionDenied  = errors.New("permission denied")
	TooManyOpenFiles  = errors.New("too many open files")
	FileTooLarge      = errors.New("file too large")
	FileAlreadyExists = errors.New("file already exists")
	FileBusy          = errors.New("file busy")
	FileIsDirectory   = errors.New("file is a directory")
	FileSizeExceeded  = errors.New("file size exceeded")
	OutOfDisk         = errors.New("out of disk space")
	UnexpectedEOF     = errors.New("unexpected end of file")
	MmapFailed        = errors.New("mmap failed")

	// Log structure errors.
	WrongLogMagicNumber          = errors.New("wrong log magic number")
	WrongLogMajorVersion         = errors.New("wrong log major version")
	UnsupportedLogMinorVersion   = errors.New("unsupported log minor version")
	LogTooSmall                  = errors.New("log too small")
	LogClosed                    = errors.New("log closed")
	LogIteratorInactive          = errors.New("log iterator inactive")
	LogIteratorMismatch          = errors.New("log iterator mismatch")
	LogIteratorClosed            = errors.New("log iterator closed")
	LogHeaderCorrupt             = errors.New("log header corrupt")
	InvalidCompressionBlockSize  = errors.New("invalid compression block size")
	InvalidCompressionType       = errors.New("invalid compression type")

	// Hash structure errors.
	WrongHashMagicNumber        = errors.New("wrong hash magic number")
	WrongHashMajorVersion       = errors.New("wrong hash major version")
	UnsupportedHashMinorVersion = errors.New("unsupported hash minor version")
	HashTooSmall                = errors.New("hash too small")
	HashClosed                  = errors.New("hash closed")
	FileIdentifierMismatch      = errors.New("file identifier mismatch")
	HashHeaderCorrupt           = errors.New("hash header corrupt")
	HashSizeInvalid             = errors.New("hash size invalid")
)

// FromOpenErrno translates an errno observed from an open(2)-family call
// into the matching filesystem error kind. Mirrors
// original_source/src/util.c's sparkey_open_returncode.
func FromOpenErrno(err error) error {
	switch {
	case errors.Is(err, syscall.EPERM), errors.Is(err, syscall.EACCES):
		return PermissionDenied
	case errors.Is(err, syscall.ENFILE), errors.Is(err, syscall.EMFILE):
		return TooManyOpenFiles
	case errors.Is(err, syscall.ENOENT):
		return FileNotFound
	case errors.Is(err, syscall.EOVERFLOW):
		return FileTooLarge
	case err == nil:
		return nil
	default:
		return Internal
	}
}

// FromCreateErrno translates an errno observed from a creat(2)-family call.
// Mirrors original_source/src/util.c's sparkey_create_returncode.
func FromCreateErrno(err error) error {
	switch {
	case errors.Is(err, syscall.EPERM), errors.Is(err, syscall.EROFS), errors.Is(err, syscall.EACCES):
		return PermissionDenied
	case errors.Is(err, syscall.EEXIST):
		return FileAlreadyExists
	case errors.Is(err, syscall.EISDIR):
		return FileIsDirectory
	case errors.Is(err, syscall.ENFILE), errors.Is(err, syscall.EMFILE):
		return TooManyOpenFiles
	case err == nil:
		return nil
	default:
		return Internal
	}
}

// FromRemoveErrno translates an errno observed from an unlink(2)-family
// call. Mirrors original_source/src/util.c's sparkey_remove_returncode.
func FromRemoveErrno(err error) error {
	switch {
	case errors.Is(err, syscall.EPERM), errors.Is(err, syscall.EROFS), errors.Is(err, syscall.EACCES):
		return PermissionDenied
	case errors.Is(err, syscall.EBUSY):
		return FileBusy
	case errors.Is(err, syscall.EISDIR):
		return FileIsDirectory
	case errors.Is(err, syscall.EOVERFLOW):
		return FileTooLarge
	case err == nil:
		return nil
	default:
		return Internal
	}
}
