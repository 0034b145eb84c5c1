package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/osm"
	"github.com/spf13/cobra"

	osmparser "highway_router/pkg/osm"
)

func newImportCmd() *cobra.Command {
	var (
		ref     string
		ways    []int64
		maxSnap float64
		ranges  []int64
		output  string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "import <file.osm.pbf>",
		Short: "Generate add-station requests from OpenStreetMap data",
		Long: `Select one highway in an OpenStreetMap extract, place every fuel and
charging station within --max-snap meters of it by its distance along the
road, and write one add-station request per station.`,
		Example: `  highway import italy.osm.pbf --ref A1 --ranges 300000,450000 > a1.txt
  highway serve --seed a1.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ref == "" && len(ways) == 0 {
				return errors.New("one of --ref or --way is required")
			}

			opts := osmparser.Options{
				Format:  osmparser.FormatFromPath(args[0]),
				Select:  osmparser.Selector{Ref: ref},
				MaxSnap: maxSnap,
				Ranges:  ranges,
			}
			switch format {
			case "":
			case "pbf":
				opts.Format = osmparser.PBF
			case "xml":
				opts.Format = osmparser.XML
			default:
				return fmt.Errorf("unknown --format %q (want pbf or xml)", format)
			}
			for _, id := range ways {
				opts.Select.WayIDs = append(opts.Select.WayIDs, osm.WayID(id))
			}
			for _, r := range ranges {
				if r < 0 {
					return fmt.Errorf("--ranges: negative range %d", r)
				}
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open extract: %w", err)
			}
			defer f.Close()

			res, err := osmparser.Import(cmd.Context(), f, opts)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			if err := writeCommands(cmd, res, output); err != nil {
				return err
			}

			printSuccess(cmd, "Placed %d stations along %.1f km", len(res.Stations), res.LengthMeters/1000)
			printLabelValue(cmd, "Ways used", fmt.Sprintf("%d of %d", res.WaysUsed, res.WaysSelected))
			if res.TooFar > 0 {
				printWarning(cmd, "%d stations were too far from the road", res.TooFar)
			}
			if res.Merged > 0 {
				printWarning(cmd, "%d stations shared a position with a closer one", res.Merged)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "Highway ref tag to follow, e.g. A1")
	cmd.Flags().Int64SliceVar(&ways, "way", nil, "Explicit way IDs making up the highway (overrides --ref)")
	cmd.Flags().Float64Var(&maxSnap, "max-snap", osmparser.DefaultMaxSnapMeters, "Maximum distance in meters between a station and the road")
	cmd.Flags().Int64SliceVar(&ranges, "ranges", nil, "Vehicle ranges stocked at every station")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default standard output)")
	cmd.Flags().StringVar(&format, "format", "", "Input format: pbf or xml (default from file name)")
	return cmd
}

func writeCommands(cmd *cobra.Command, res *osmparser.Result, path string) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
		if err := res.WriteCommands(w); err != nil {
			return err
		}
		return f.Close()
	}
	return res.WriteCommands(w)
}
