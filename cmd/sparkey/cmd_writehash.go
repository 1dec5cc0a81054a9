package main

import (
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/sparkeydb/sparkey/filenames"
	"github.com/sparkeydb/sparkey/hashbuilder"
)

func newCmdWriteHash() *cli.Command {
	return &cli.Command{
		Name:      "writehash",
		Usage:     "generate a hash index for a log file",
		ArgsUsage: "<file.spl>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("usage: sparkey writehash <file.spl>", 1)
			}
			logPath := c.Args().Get(0)
			indexPath, err := filenames.IndexFromLog(logPath)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if err := hashbuilder.Build(logPath, indexPath, 0); err != nil {
				return cli.Exit(err, 1)
			}
			klog.Infof("wrote %s", indexPath)
			return nil
		},
	}
}
