package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/joshuapare/dtbmods/devtree/walker"
	"github.com/joshuapare/dtbmods/internal/reader"
	"github.com/joshuapare/dtbmods/modalias"
	"github.com/joshuapare/dtbmods/report"
)

func runList(out io.Writer, logger *log.Logger, opts *options) error {
	logger.Debug("Opening device tree", "path", opts.dtbPath)
	r, err := reader.Open(opts.dtbPath)
	if err != nil {
		return fmt.Errorf("failed to open dtb: %w", err)
	}
	defer r.Close()

	info := r.Info()
	logger.Debug("Device tree header", "version", info.Version, "size", info.TotalSize)

	devices, err := walker.Devices(r)
	if err != nil {
		return fmt.Errorf("failed to read devices from %s: %w", opts.dtbPath, err)
	}
	logger.Debug("Collected devices", "count", len(devices))

	aliases, err := modalias.Load(opts.modaliasPath)
	if err != nil {
		return fmt.Errorf("failed to read aliases: %w", err)
	}
	index := modalias.IndexByCompatible(aliases)
	logger.Debug("Indexed aliases", "aliases", aliases.Len(), "compatibles", len(index))

	if err := report.Write(out, devices, index); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	return nil
}
