// cmd/main.go

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"AveBin/pkg/format"
	"AveBin/pkg/image"
	"AveBin/pkg/utils"
	"AveBin/pkg/version"
)

var logger = utils.GetLogger("avebin")

func main() {
	app := &cli.App{
		Name:                 "avebin",
		Usage:                "manipulate firmware and memory images (srec, ihex, ti_txt, vmem, binary, elf)",
		Version:              version.Version(),
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"debug", "v"},
				Usage:   "enable debug log",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only warning and errors",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "append logs to this file instead of stderr",
			},
		},
		Commands: []*cli.Command{
			infoFlags(),
			convertFlags(),
			fillFlags(),
			dumpFlags(),
			prettyFlags(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatalf("%s", err)
	}
}

func setLoggerLevel(c *cli.Context) {
	if c.Bool("verbose") {
		utils.SetLogLevel(logrus.DebugLevel)
	} else if c.Bool("quiet") {
		utils.SetLogLevel(logrus.WarnLevel)
	}
	if file := c.String("log"); file != "" {
		utils.SetOutFile(file)
	}
}

// imageFlags are the flags shared by every subcommand that loads an image.
func imageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "word-size",
			Aliases: []string{"s"},
			Value:   image.DefaultWordSize,
			Usage:   "word size in bits",
		},
		&cli.StringFlag{
			Name:    "in-format",
			Aliases: []string{"i"},
			Usage:   "input format (srec, ihex, ti_txt, vmem, binary, elf); detected when not given",
		},
		&cli.StringFlag{
			Name:    "address",
			Aliases: []string{"a"},
			Value:   "0",
			Usage:   "load address for raw binary input (word units, 0x prefix for hex)",
		},
		&cli.BoolFlag{
			Name:    "overwrite",
			Aliases: []string{"w"},
			Usage:   "let input data overwrite already loaded data",
		},
		&cli.BoolFlag{
			Name:  "no-header-codec",
			Usage: "keep the image header as raw bytes",
		},
	}
}

func parseAddress(s string) (uint64, error) {
	address, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}
	return address, nil
}

func newImage(c *cli.Context) (*image.Image, error) {
	img, err := image.New(c.Int("word-size"))
	if err != nil {
		return nil, err
	}
	if c.Bool("no-header-codec") {
		img.SetHeaderCodec(image.HeaderCodecNone)
	}
	return img, nil
}

// loadInto reads one input file into img, detecting the format when none
// was requested. Reading shows a progress bar on a terminal.
func loadInto(img *image.Image, c *cli.Context, path string) (format.Format, error) {
	address, err := parseAddress(c.String("address"))
	if err != nil {
		return 0, err
	}
	opts := format.Options{
		Overwrite: c.Bool("overwrite"),
		Address:   address,
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	progress, bar := utils.NewDynProgressBar("reading "+path+" ", c.Bool("quiet"))
	if st, err := f.Stat(); err == nil {
		bar.SetTotal(st.Size(), false)
	}
	data, err := io.ReadAll(bar.ProxyReader(f))
	if err != nil {
		return 0, err
	}
	bar.SetTotal(int64(len(data)), true)
	progress.Wait()

	var in format.Format
	if name := c.String("in-format"); name != "" {
		in, err = format.ParseFormat(name)
	} else if byExt, ok := format.FromExtension(path); ok {
		in = byExt
	} else {
		in, err = format.Detect(data)
	}
	if err != nil {
		return 0, err
	}
	logger.Debugf("reading %s as %s", path, in)
	return in, format.Read(img, bytes.NewReader(data), in, opts)
}

// saveTo writes img to path in the requested output format, inferring it
// from the file name when none was given.
func saveTo(img *image.Image, c *cli.Context, path string) error {
	name := c.String("out-format")
	var out format.Format
	if name != "" {
		var err error
		if out, err = format.ParseFormat(name); err != nil {
			return err
		}
	} else if inferred, ok := format.FromExtension(path); ok {
		out = inferred
	} else {
		return fmt.Errorf("cannot infer output format of %s, pass --out-format", path)
	}

	opts := format.Options{
		DataBytes:   c.Int("data-bytes"),
		AddressBits: c.Int("address-length"),
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	logger.Debugf("writing %s as %s", path, out)
	if err := format.Write(img, f, out, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// outputFlags are the flags shared by every subcommand that writes an
// image back out.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "out-format",
			Aliases: []string{"o"},
			Usage:   "output format (srec, ihex, ti_txt, vmem, binary); inferred from the file name when not given",
		},
		&cli.IntFlag{
			Name:  "data-bytes",
			Value: format.DefaultDataBytes,
			Usage: "payload bytes per record line",
		},
		&cli.IntFlag{
			Name:  "address-length",
			Value: format.DefaultAddressBits,
			Usage: "srec/ihex address length in bits (16, 24 or 32)",
		},
	}
}
