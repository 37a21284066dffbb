// cmd/pretty.go

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"AveBin/pkg/record"
)

var (
	typeColor     = color.New(color.FgYellow, color.Bold)
	countColor    = color.New(color.FgGreen)
	addressColor  = color.New(color.FgRed)
	checksumColor = color.New(color.FgCyan)
)

func prettyFlags() *cli.Command {
	return &cli.Command{
		Name:      "pretty",
		Usage:     "print an srec or ihex file with colorized record fields",
		ArgsUsage: "FILE",
		Action:    pretty,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colors",
			},
		},
	}
}

func pretty(c *cli.Context) error {
	setLoggerLevel(c)
	if c.Args().Len() != 1 {
		return fmt.Errorf("FILE is needed")
	}
	if c.Bool("no-color") {
		color.NoColor = true
	}
	f, err := os.Open(c.Args().Get(0))
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case len(line) > 0 && line[0] == 'S':
			fmt.Println(prettySRec(line))
		case len(line) > 0 && line[0] == ':':
			fmt.Println(prettyIHex(line))
		default:
			fmt.Println(line)
		}
	}
	return scanner.Err()
}

// prettySRec colorizes one S-Record: type, byte count, address, data and
// checksum. Malformed lines are printed unstyled.
func prettySRec(line string) string {
	typ, _, data, err := record.UnpackSRec(line)
	if err != nil {
		return line
	}
	var width int
	switch typ {
	case record.SRecTypeData24, record.SRecTypeCount24, record.SRecTypeStart24:
		width = 6
	case record.SRecTypeData32, record.SRecTypeStart32:
		width = 8
	default:
		width = 4
	}
	i := 4 + width
	j := i + 2*len(data)
	return typeColor.Sprint(line[:2]) +
		countColor.Sprint(line[2:4]) +
		addressColor.Sprint(line[4:i]) +
		line[i:j] +
		checksumColor.Sprint(line[j:])
}

// prettyIHex colorizes one Intel HEX record: byte count, address, type,
// data and checksum.
func prettyIHex(line string) string {
	_, _, data, err := record.UnpackIHex(line)
	if err != nil {
		return line
	}
	j := 9 + 2*len(data)
	return line[:1] +
		countColor.Sprint(line[1:3]) +
		addressColor.Sprint(line[3:7]) +
		typeColor.Sprint(line[7:9]) +
		line[9:j] +
		checksumColor.Sprint(line[j:])
}
