// cmd/convert.go

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func convertFlags() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "convert an image file into another format",
		ArgsUsage: "SRC DST",
		Action:    convert,
		Flags:     append(imageFlags(), outputFlags()...),
	}
}

func convert(c *cli.Context) error {
	setLoggerLevel(c)
	if c.Args().Len() != 2 {
		return fmt.Errorf("SRC and DST are needed")
	}
	img, err := newImage(c)
	if err != nil {
		return err
	}
	if _, err := loadInto(img, c, c.Args().Get(0)); err != nil {
		return err
	}
	return saveTo(img, c, c.Args().Get(1))
}
