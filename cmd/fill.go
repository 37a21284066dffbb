// cmd/fill.go

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"
)

func fillFlags() *cli.Command {
	return &cli.Command{
		Name:      "fill",
		Usage:     "fill the gaps between data segments and write the result",
		ArgsUsage: "SRC DST",
		Action:    fill,
		Flags: append(append(imageFlags(), outputFlags()...),
			&cli.StringFlag{
				Name:  "value",
				Usage: "filler word as hex bytes (default ff per word byte)",
			},
			&cli.Uint64Flag{
				Name:  "max-words",
				Usage: "only fill gaps up to this many words (0 fills all)",
			},
		),
	}
}

func fill(c *cli.Context) error {
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

	var value []byte
	if s := c.String("value"); s != "" {
		if value, err = hex.DecodeString(s); err != nil {
			return fmt.Errorf("bad fill value %q", s)
		}
	}
	if err := img.Fill(value, c.Uint64("max-words")); err != nil {
		return err
	}
	return saveTo(img, c, c.Args().Get(1))
}
