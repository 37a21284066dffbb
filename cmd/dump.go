// cmd/dump.go

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"AveBin/pkg/format"
)

func dumpFlags() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "dump an image file to stdout in one format",
		ArgsUsage: "FILE",
		Action:    dump,
		Flags: append(append(imageFlags(), outputFlags()...),
			&cli.StringFlag{
				Name:  "as",
				Value: "hexdump",
				Usage: "output rendering (hexdump, array, srec, ihex, ti_txt, vmem, binary)",
			},
		),
	}
}

func dump(c *cli.Context) error {
	setLoggerLevel(c)
	if c.Args().Len() != 1 {
		return fmt.Errorf("FILE is needed")
	}
	img, err := newImage(c)
	if err != nil {
		return err
	}
	if _, err := loadInto(img, c, c.Args().Get(0)); err != nil {
		return err
	}

	switch name := c.String("as"); name {
	case "hexdump":
		return format.WriteHexdump(img, os.Stdout)
	case "array":
		return format.WriteArray(img, os.Stdout, nil)
	default:
		out, err := format.ParseFormat(name)
		if err != nil {
			return err
		}
		return format.Write(img, os.Stdout, out, format.Options{
			DataBytes:   c.Int("data-bytes"),
			AddressBits: c.Int("address-length"),
		})
	}
}
