package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/sparkeydb/sparkey/filenames"
	"github.com/sparkeydb/sparkey/hashreader"
	"github.com/sparkeydb/sparkey/logreader"
)

// newCmdGet implements sparkey get <index.spi> <key>: exit 0 on a hit, 1
// on error, 2 on miss.
func newCmdGet() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "get the value associated with a key",
		ArgsUsage: "<file.spi> <key>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return cli.Exit("usage: sparkey get <file.spi> <key>", 1)
			}
			indexPath := c.Args().Get(0)
			key := c.Args().Get(1)

			logPath, err := filenames.LogFromIndex(indexPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return cli.Exit("", 1)
			}

			r, err := hashreader.Open(indexPath, logPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return cli.Exit("", 1)
			}
			defer r.Close()

			it := r.LogReader().NewIterator()
			if err := r.Get([]byte(key), it); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return cli.Exit("", 1)
			}

			if it.State() != logreader.StateActive {
				return cli.Exit("", 2)
			}
			for {
				chunk, err := it.ValueChunk(1 << 20)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					return cli.Exit("", 1)
				}
				if len(chunk) == 0 {
					break
				}
				os.Stdout.Write(chunk)
			}
			return nil
		},
	}
}
