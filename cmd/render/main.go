package main

import (
	"os"

	"github.com/mtoralba/geovista/geotab"
	"github.com/mtoralba/geovista/internal/config"
	"github.com/mtoralba/geovista/internal/logger"
	"github.com/mtoralba/geovista/webmap"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to render-job file" default:"render.yaml"`
	Output     string `short:"o" long:"out"    env:"OUTPUT_FILE" description:"Output HTML path, overrides the job file"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load render job")
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}

	// Sources are read once, keyed by path, so a shapefile shared between
	// layers is not parsed per layer.
	sources := make(map[string]*geotab.Set)
	load := func(path string) *geotab.Set {
		if s, ok := sources[path]; ok {
			return s
		}
		s, err := geotab.Read(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to read shapefile")
		}
		log.Debug().Str("path", path).Int("rows", s.Len()).Msg("Shapefile loaded")
		sources[path] = s
		return s
	}

	mapOpts := webmap.Options{
		Zoom:         cfg.Map.Zoom,
		Tiles:        cfg.Map.Tiles,
		ControlScale: cfg.Map.ControlScale,
		PreferCanvas: cfg.Map.PreferCanvas,
	}
	if cfg.Map.Fit != "" {
		mapOpts.Fit = load(cfg.Map.Fit)
	} else if cfg.Map.Lat != nil && cfg.Map.Lon != nil {
		mapOpts.Center = &webmap.LatLon{Lat: *cfg.Map.Lat, Lon: *cfg.Map.Lon}
	}

	m, err := webmap.New(mapOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create map")
	}

	for i, layer := range cfg.Layers {
		set := load(layer.Shapefile)

		switch layer.Type {
		case "points":
			err = m.AddPoints(set, webmap.PointOptions{
				LatCol:      layer.LatCol,
				LonCol:      layer.LonCol,
				ColorBy:     layer.ColorBy,
				Tooltip:     layer.Tooltip,
				TooltipCols: layer.TooltipCols,
			})
		case "polygons":
			err = m.AddPolygons(set, webmap.PolygonOptions{
				ColorBy:        layer.ColorBy,
				TooltipFields:  layer.TooltipFields,
				TooltipAliases: layer.TooltipAliases,
				FillOpacity:    layer.FillOpacity,
				FillColor:      layer.FillColor,
			})
		case "outlines":
			err = m.AddOutlines(set, webmap.OutlineOptions{
				GroupBy:        layer.GroupBy,
				Colors:         layer.Colors,
				Emojis:         layer.Emojis,
				TooltipFields:  layer.TooltipFields,
				TooltipAliases: layer.TooltipAliases,
			})
		case "labels":
			err = m.AddPolygonLabels(set, layer.Column, layer.Color)
		}
		if err != nil {
			log.Fatal().Err(err).Int("layer", i).Str("type", layer.Type).Msg("Failed to add layer")
		}

		log.Info().Int("layer", i).Str("type", layer.Type).Str("source", layer.Shapefile).Msg("Layer added")
	}

	if err := m.Save(cfg.Output); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Output).Msg("Failed to write map")
	}

	log.Info().Str("path", cfg.Output).Int("layers", len(cfg.Layers)).Msg("Map rendered successfully")
}
