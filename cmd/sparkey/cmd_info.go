package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/sparkeydb/sparkey/hashformat"
	"github.com/sparkeydb/sparkey/logformat"
	"github.com/sparkeydb/sparkey/sperrors"
)

func newCmdInfo() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "show information about sparkey files",
		ArgsUsage: "<file...>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("usage: sparkey info <file...>", 1)
			}
			var failed bool
			for _, path := range c.Args().Slice() {
				if err := infoFile(path); err != nil {
					fmt.Printf("%s: %v\n", path, err)
					failed = true
				}
			}
			if failed {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// infoFile probes the log header first, then the hash header, since a
// wrong-magic-number error isn't fatal to this workflow.
func infoFile(path string) error {
	buf, err := readHeaderBytes(path)
	if err != nil {
		return err
	}

	var lh logformat.Header
	logErr := lh.Load(buf)
	if logErr == nil {
		fmt.Printf("Filename: %s\n", path)
		printLogHeader(&lh)
		fmt.Println()
		return nil
	}
	if !errors.Is(logErr, sperrors.WrongLogMagicNumber) {
		return logErr
	}

	var hh hashformat.Header
	hashErr := hh.Load(buf)
	if hashErr == nil {
		fmt.Printf("Filename: %s\n", path)
		printHashHeader(&hh)
		fmt.Println()
		return nil
	}
	if !errors.Is(hashErr, sperrors.WrongHashMagicNumber) {
		return hashErr
	}
	return fmt.Errorf("not a sparkey file")
}

func printLogHeader(h *logformat.Header) {
	fmt.Printf("  Type: log\n")
	fmt.Printf("  Major version: %d\n", h.MajorVersion)
	fmt.Printf("  Minor version: %d\n", h.MinorVersion)
	fmt.Printf("  File identifier: %d\n", h.FileIdentifier)
	fmt.Printf("  Num puts: %s\n", humanize.Comma(int64(h.NumPuts)))
	fmt.Printf("  Num deletes: %s\n", humanize.Comma(int64(h.NumDeletes)))
	fmt.Printf("  Num entries: %s\n", humanize.Comma(int64(h.NumEntries)))
	fmt.Printf("  Data size: %s\n", humanize.Bytes(h.DataLen))
	fmt.Printf("  Max key len: %d\n", h.MaxKeyLen)
	fmt.Printf("  Max value len: %d\n", h.MaxValueLen)
	fmt.Printf("  Compression type: %s\n", h.CompressionType)
	if h.CompressionType != 0 {
		fmt.Printf("  Compression block size: %d\n", h.CompressionBlockSize)
	}
}

func printHashHeader(h *hashformat.Header) {
	fmt.Printf("  Type: hash\n")
	fmt.Printf("  Major version: %d\n", h.MajorVersion)
	fmt.Printf("  Minor version: %d\n", h.MinorVersion)
	fmt.Printf("  File identifier: %d\n", h.FileIdentifier)
	fmt.Printf("  Hash algorithm: %v\n", h.HashAlgorithm)
	fmt.Printf("  Hash size: %d\n", h.HashSize)
	fmt.Printf("  Address size: %d\n", h.AddressSize)
	fmt.Printf("  Capacity: %s\n", humanize.Comma(int64(h.Capacity)))
	fmt.Printf("  Entry count: %s\n", humanize.Comma(int64(h.EntryCount)))
	fmt.Printf("  Max displacement: %d\n", h.MaxDisplacement)
}
