package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/warviz"
)

var errCheckFailed = errors.New("some event files could not be loaded")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the dataset and every event file and print a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := warviz.LoadDataset(cfg.Data.File)
		if err != nil {
			return err
		}
		src := warviz.FileSource{Dir: cfg.Data.EventsDir}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COUNTRY\tMILITARY\tCIVILIAN\tTOTAL\tEVENTS")
		failed := 0
		var grand float64
		for _, r := range ds.Records {
			grand += r.TotalCasualties
			events := "aggregate"
			evs, err := src.Events(context.Background(), r.Country)
			switch {
			case err != nil:
				failed++
				events = "error"
				logger.Warn("event file", zap.String("country", r.Country), zap.Error(err))
			case len(evs) > 0:
				events = fmt.Sprintf("%d events", len(evs))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.Country,
				humanize.Comma(int64(r.MilitaryCasualties)),
				humanize.Comma(int64(r.CivilianCasualties)),
				humanize.Comma(int64(r.TotalCasualties)),
				events)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d countries, %s casualties (%s)\n",
			len(ds.Records), humanize.Comma(int64(grand)), humanize.SIWithDigits(grand, 1, ""))

		if failed > 0 {
			return fmt.Errorf("%d of %d: %w", failed, len(ds.Records), errCheckFailed)
		}
		return nil
	},
}
