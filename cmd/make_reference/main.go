package main

import (
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	"github.com/hscells/themeval/cmd"
	"github.com/hscells/themeval/reference"
)

var (
	name    = "make_reference"
	version = "19.Oct.2026"
)

type args struct {
	Input  string `arg:"positional,required" help:"JSON reference mapping, doc id -> [theme, subtheme...]"`
	Output string `arg:"positional,required" help:"reference file to write"`
	Codec  string `arg:"--codec" help:"compression of the output (gzip, zstd, none)"`
	Debug  bool   `arg:"--debug" help:"print the stack of fatal errors"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", name, version)
}

func (args) Description() string {
	return `converts a JSON reference mapping into a reference file`
}

func main() {
	var args args
	args.Codec = string(reference.Gzip)
	arg.MustParse(&args)

	codec, err := reference.ParseCodec(args.Codec)
	if err != nil {
		cmd.Fatal(err, args.Debug)
	}

	s, err := reference.LoadJSON(args.Input)
	if err != nil {
		cmd.Fatal(err, args.Debug)
	}
	log.Printf("read %d reference documents from %s", s.Len(), args.Input)

	if err := reference.Save(args.Output, s, codec); err != nil {
		cmd.Fatal(err, args.Debug)
	}
	log.Printf("wrote %s (%s)", args.Output, codec)
}
