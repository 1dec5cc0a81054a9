package main

import (
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/sparkeydb/sparkey/compressor"
	"github.com/sparkeydb/sparkey/logwriter"
)

// defaultBlockSize matches the original CLI's snappy default of 4096.
const defaultBlockSize = 4096

func newCmdCreateLog() *cli.Command {
	return &cli.Command{
		Name:      "createlog",
		Usage:     "create a new empty log file",
		ArgsUsage: "<file.spl>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "c", Usage: "compression algorithm: none|snappy|zstd", Value: "none"},
			&cli.UintFlag{Name: "b", Usage: "compression block size", Value: defaultBlockSize},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("usage: sparkey createlog [-c none|snappy|zstd] [-b blocksize] <file.spl>", 1)
			}
			typ, err := compressor.ParseType(c.String("c"))
			if err != nil {
				return cli.Exit(err, 1)
			}
			path := c.Args().Get(0)
			w, err := logwriter.Create(path, typ, uint32(c.Uint("b")))
			if err != nil {
				return cli.Exit(err, 1)
			}
			if err := w.Close(); err != nil {
				return cli.Exit(err, 1)
			}
			klog.Infof("created %s", path)
			return nil
		},
	}
}
