package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
	"go.uber.org/zap"
)

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = w.Write(pretty.Pretty(b))
	return err
}

func airportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "airport CODE",
		Short: "Show an airport, merged with local reference data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			airport, err := a.newClient(nil).GetAirport(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), airport)
		},
	}
}

func delaysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delays [CODE]",
		Short: "Show delays for one airport, or for all airports without a code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := a.newClient(nil)
			if len(args) == 0 {
				all, err := client.GetAllAirportDelays(cmd.Context(), aeroapi.Paging{MaxPages: 1})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), all)
			}
			delays, err := client.GetAirportDelays(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), delays)
		},
	}
}

func flightCmd(a *app) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "flight IDENT",
		Short: "List flights for an ident, registration or fa_flight_id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseFlagTime("start", start)
			if err != nil {
				return err
			}
			to, err := parseFlagTime("end", end)
			if err != nil {
				return err
			}

			r, err := aeroapi.NewFlightsRequest(args[0], from, to)
			if err != nil {
				return err
			}
			flights, err := a.newClient(nil).GetFlights(cmd.Context(), r)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), flights)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "window start, RFC 3339")
	cmd.Flags().StringVar(&end, "end", "", "window end, RFC 3339")

	return cmd
}

func parseFlagTime(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return t, nil
}

func trackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "track FA_FLIGHT_ID",
		Short: "Show the positions flown so far, including estimated ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := aeroapi.NewFlightTrackRequest(args[0])
			if err != nil {
				return err
			}
			track, err := a.newClient(nil).GetFlightTrack(cmd.Context(), r)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), track)
		},
	}
}

func mapCmd(a *app) *cobra.Command {
	var (
		output string
		opts   aeroapi.MapOptions
	)

	cmd := &cobra.Command{
		Use:   "map FA_FLIGHT_ID",
		Short: "Save the flight map as a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := aeroapi.NewFlightMapRequest(args[0], opts)
			if err != nil {
				return err
			}
			png, err := a.newClient(nil).GetFlightMap(cmd.Context(), r)
			if err != nil {
				return err
			}

			if output == "" {
				output = args[0] + ".png"
			}
			if err := renameio.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			a.log.Info("Flight map saved", zap.String("path", output), zap.Int("bytes", len(png)))
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: FA_FLIGHT_ID.png)")
	cmd.Flags().IntVar(&opts.Height, "height", aeroapi.DefaultMapHeight, "image height in pixels")
	cmd.Flags().IntVar(&opts.Width, "width", aeroapi.DefaultMapWidth, "image width in pixels")

	return cmd
}

func operatorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "operator CODE",
		Short: "Show an operator by ICAO or IATA code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])
			r := aeroapi.OperatorInfoRequest{ICAO: code}
			if len(code) == 2 {
				r = aeroapi.OperatorInfoRequest{IATA: code}
			}
			airline, err := a.newClient(nil).GetOperator(cmd.Context(), r)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), airline)
		},
	}
}

// lookupCmd reads only the local reference data and needs no API key.
func lookupCmd(a *app) *cobra.Command {
	var airlines bool

	cmd := &cobra.Command{
		Use:   "lookup PATTERN",
		Short: "Search local reference data by code, name prefix or wildcard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.OutOrStdout(), a.cache, args[0], airlines)
		},
	}

	cmd.Flags().BoolVar(&airlines, "airlines", false, "search airlines instead of airports")

	return cmd
}

func runLookup(w io.Writer, cache *aeroapi.ReferenceCache, pattern string, airlines bool) error {
	wildcard := strings.ContainsAny(pattern, "*?")

	if airlines {
		found := []aeroapi.Airline{}
		if wildcard {
			found = append(found, cache.SearchAirlines(pattern)...)
		} else if airline, ok := cache.FindAirline(pattern); ok {
			found = append(found, airline)
		}
		return printJSON(w, found)
	}

	found := []aeroapi.Airport{}
	if wildcard {
		found = append(found, cache.SearchAirports(pattern)...)
	} else if airport, ok := cache.FindAirport(pattern); ok {
		found = append(found, airport)
	}
	return printJSON(w, found)
}
