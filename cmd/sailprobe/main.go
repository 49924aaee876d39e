// Package sailprobe is a demonstration binary, not a product: it exists to
// exercise the Junior façade end to end, not to be a full-featured
// image tool. It is a minimal command-line wrapper over the Junior API: it
// prints a file's dimensions and pixel format, and can
// convert one image file into another format by extension.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ausocean/sail"
)

func main() {
	out := flag.String("out", "", "if set, convert the input file to this path (codec inferred from extension)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sailprobe [-out path] <image file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	img, err := sail.LoadFromFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sailprobe: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %dx%d, pixel format %v\n", path, img.Width, img.Height, img.PixelFormat)

	if *out == "" {
		return
	}
	if err := sail.SaveToFile(*out, img); err != nil {
		fmt.Fprintf(os.Stderr, "sailprobe: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}
