package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/sparkeydb/sparkey/logwriter"
)

// defaultDelimiter matches the original CLI's TAB default.
const defaultDelimiter = "\t"

func newCmdAppendLog() *cli.Command {
	return &cli.Command{
		Name:      "appendlog",
		Usage:     "append key/value pairs read from stdin to a log file",
		ArgsUsage: "<file.spl>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "d", Usage: "delimiter char to split input records on", Value: defaultDelimiter},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("usage: sparkey appendlog [-d char] <file.spl>", 1)
			}
			delim := c.String("d")
			if len(delim) != 1 {
				return cli.Exit("delimiter must be one character", 1)
			}

			path := c.Args().Get(0)
			w, err := logwriter.Append(path)
			if err != nil {
				return cli.Exit(err, 1)
			}

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1<<28)
			for scanner.Scan() {
				line := scanner.Text()
				idx := strings.IndexByte(line, delim[0])
				if idx < 0 {
					w.Close()
					return cli.Exit(fmt.Sprintf("cannot split input line, aborting early: %q", line), 1)
				}
				key, value := line[:idx], line[idx+1:]
				if err := w.Put([]byte(key), []byte(value)); err != nil {
					w.Close()
					return cli.Exit(err, 1)
				}
			}
			if err := scanner.Err(); err != nil {
				w.Close()
				return cli.Exit(err, 1)
			}
			if err := w.Close(); err != nil {
				return cli.Exit(err, 1)
			}
			return nil
		},
	}
}
