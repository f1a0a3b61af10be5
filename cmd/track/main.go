package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mtoralba/geovista/geotab"
	"github.com/mtoralba/geovista/internal/logger"
	"github.com/mtoralba/geovista/webmap"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input      string `short:"i" long:"in"          description:"Input CSV of timestamped positions. Reads from stdin if empty"`
	Output     string `short:"o" long:"out"         description:"Output shapefile path" required:"true"`
	LatCol     string `long:"lat-col"               description:"Latitude column"  default:"latitude"`
	LonCol     string `long:"lon-col"               description:"Longitude column" default:"longitude"`
	TimeCol    string `long:"time-col"              description:"Timestamp column" default:"timestamp"`
	TimeFormat string `long:"time-format"           description:"Timestamp layout (Go reference time)" default:"2006-01-02T15:04:05Z07:00"`
	Map        string `short:"m" long:"map"         description:"Also write an HTML preview map to this path"`
	Force      bool   `short:"f" long:"force"       description:"Force overwrite of existing files"`
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

	var in io.Reader = os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open input")
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	table, err := readCSV(in, opts.TimeCol, opts.TimeFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read CSV")
	}

	set, err := geotab.FromTable(table, opts.LonCol, opts.LatCol)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to convert table")
	}

	track, err := geotab.Trajectory(set, opts.LatCol, opts.LonCol, opts.TimeCol)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build trajectory")
	}

	hours, _ := track.Attr(0, geotab.DurationColumn)
	log.Info().
		Int("positions", set.Len()).
		Interface("hours", hours).
		Msg("Trajectory built")

	if err := geotab.Write(track, opts.Output, opts.Force); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to export shapefile")
	}
	log.Info().Str("path", opts.Output).Msg("Shapefile written")

	if opts.Map == "" {
		return
	}

	m, err := webmap.New(webmap.Options{Fit: track, Zoom: 9, ControlScale: true, PreferCanvas: true})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create preview map")
	}
	if err := m.AddPoints(set, webmap.PointOptions{
		LatCol:  opts.LatCol,
		LonCol:  opts.LonCol,
		Tooltip: opts.TimeCol,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to add positions")
	}
	if err := m.Save(opts.Map); err != nil {
		log.Fatal().Err(err).Str("path", opts.Map).Msg("Failed to write preview map")
	}
	log.Info().Str("path", opts.Map).Msg("Preview map written")
}

// readCSV parses the position table, converting the timestamp column with
// the given layout and numeric-looking cells to float64.
func readCSV(r io.Reader, timeCol, timeFormat string) (*geotab.Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, err
	}

	table := &geotab.Table{Columns: header}

	timeIdx := -1
	for i, c := range header {
		if c == timeCol {
			timeIdx = i
		}
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make([]any, len(record))
		for i, cell := range record {
			if i == timeIdx {
				ts, err := time.Parse(timeFormat, cell)
				if err != nil {
					return nil, err
				}
				row[i] = ts
				continue
			}
			if f, err := strconv.ParseFloat(cell, 64); err == nil {
				row[i] = f
				continue
			}
			row[i] = cell
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
