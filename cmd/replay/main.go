// Command replay converts a single CS2 demo into a replay document.
//
//	replay -input match.dem -output match.json
//	replay -input match.dem.zst -output match.json.zst -zstd
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"demoreplay/internal/codec"
	"demoreplay/internal/demo"
	"demoreplay/internal/logging"
	"demoreplay/internal/replay"
)

func main() {
	input := flag.String("input", "", "path to the .dem file (a .zst suffix is decompressed)")
	output := flag.String("output", "", "where to write the document; stdout when empty")
	tickSkip := flag.Int("tick-skip", replay.DefaultTickSkip, "emit one frame every N ticks")
	compress := flag.Bool("zstd", false, "zstd-compress the output")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.Logger()

	if *input == "" {
		logger.Errorf("-input is required")
		flag.Usage()
		os.Exit(2)
	}

	f, err := demo.Open(*input)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer f.Close()

	doc, err := demo.Parse(ctx, f, demo.Options{TickSkip: *tickSkip})
	if err != nil {
		logger.Errorf("parse %s: %v", *input, err)
		os.Exit(1)
	}

	data, err := replay.Encode(doc)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	if *compress {
		if data, err = codec.Compress(data); err != nil {
			logger.Errorf("compress: %v", err)
			os.Exit(1)
		}
	}

	if *output == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			logger.Errorf("write stdout: %v", err)
			os.Exit(1)
		}
		return
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		logger.Errorf("write %s: %v", *output, err)
		os.Exit(1)
	}
	logger.Infof("wrote %s (%d bytes, %d frames)", *output, len(data), len(doc.Frames))
}
