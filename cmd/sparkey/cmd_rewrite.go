package main

import (
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/sparkeydb/sparkey/compressor"
	"github.com/sparkeydb/sparkey/filenames"
	"github.com/sparkeydb/sparkey/hashbuilder"
	"github.com/sparkeydb/sparkey/logreader"
	"github.com/sparkeydb/sparkey/logwriter"
)

// newCmdRewrite implements sparkey rewrite: read an index/log pair,
// drop every entry superseded by a later put or delete, and write a
// fresh pair containing only the survivors.
func newCmdRewrite() *cli.Command {
	return &cli.Command{
		Name:      "rewrite",
		Usage:     "rewrite a log/index pair, trimming superseded entries",
		ArgsUsage: "<input.spi> <output.spi>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "c", Usage: "compression algorithm: none|snappy|zstd (default: same as input)"},
			&cli.UintFlag{Name: "b", Usage: "compression block size (default: same as input)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return cli.Exit("usage: sparkey rewrite [-c ...] [-b ...] <input.spi> <output.spi>", 1)
			}
			inputIndex := c.Args().Get(0)
			outputIndex := c.Args().Get(1)

			inputLog, err := filenames.LogFromIndex(inputIndex)
			if err != nil {
				return cli.Exit(err, 1)
			}
			outputLog, err := filenames.LogFromIndex(outputIndex)
			if err != nil {
				return cli.Exit(err, 1)
			}

			lr, err := logreader.Open(inputLog)
			if err != nil {
				return cli.Exit(err, 1)
			}
			defer lr.Close()
			origHeader := lr.Header()

			typ := origHeader.CompressionType
			if c.IsSet("c") {
				typ, err = compressor.ParseType(c.String("c"))
				if err != nil {
					return cli.Exit(err, 1)
				}
			}
			blockSize := origHeader.CompressionBlockSize
			if c.IsSet("b") {
				blockSize = uint32(c.Uint("b"))
			}

			live, order, err := hashbuilder.ScanLiveness(lr)
			if err != nil {
				return cli.Exit(err, 1)
			}

			w, err := logwriter.Create(outputLog, typ, blockSize)
			if err != nil {
				return cli.Exit(err, 1)
			}
			for _, key := range order {
				e := live[key]
				if !e.IsPut {
					continue
				}
				if err := w.Put([]byte(key), e.Value); err != nil {
					w.Close()
					return cli.Exit(err, 1)
				}
			}
			if err := w.Close(); err != nil {
				return cli.Exit(err, 1)
			}

			if err := hashbuilder.Build(outputLog, outputIndex, 0); err != nil {
				return cli.Exit(err, 1)
			}
			klog.Infof("rewrote %s -> %s", inputIndex, outputIndex)
			return nil
		},
	}
}
