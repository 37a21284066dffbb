// cmd/info.go

package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
)

func infoFlags() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "show format, header, entry point and data ranges of image files",
		ArgsUsage: "FILE ...",
		Action:    info,
		Flags:     imageFlags(),
	}
}

func info(c *cli.Context) error {
	setLoggerLevel(c)
	if c.Args().Len() < 1 {
		return fmt.Errorf("FILE is needed")
	}
	for i := 0; i < c.Args().Len(); i++ {
		path := c.Args().Get(i)
		img, err := newImage(c)
		if err != nil {
			return err
		}
		in, err := loadInto(img, c, path)
		if err != nil {
			return err
		}

		fmt.Printf("file:   %s\n", path)
		fmt.Printf("format: %s\n", in)
		if header, ok := img.HeaderBytes(); ok {
			if text, err := img.Header(); err == nil {
				fmt.Printf("header: %s\n", strconv.Quote(text))
			} else {
				fmt.Printf("header: %x\n", header)
			}
		}
		if start, ok := img.ExecutionStartAddress(); ok {
			fmt.Printf("execution start address: 0x%08x\n", start)
		}
		fmt.Println("data:")
		wsb := img.WordSizeBytes()
		for _, s := range img.Store().Segments() {
			fmt.Printf("        0x%08x - 0x%08x\n", s.Minimum()/wsb, s.Maximum()/wsb)
		}
	}
	return nil
}
