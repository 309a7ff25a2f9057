package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ip-tracker/internal/lookup"
	"ip-tracker/internal/query"
)

func lookupCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "lookup [text]",
		Short: "Look up the location of an IP address or domain (empty for your own address)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openLookup()
			if err != nil {
				return err
			}
			defer s.Close()

			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			rec, err := s.Lookup.Lookup(cmd.Context(), classifier()(query.ToASCII(raw)))
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}
			printRecord(cmd.OutOrStdout(), rec)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw record as JSON")
	return cmd
}

// printRecord：与页面上的四个信息栏一致
func printRecord(w io.Writer, rec *lookup.LocationRecord) {
	loc := rec.Location
	fmt.Fprintf(w, "IP Address: %s\n", rec.IP)
	fmt.Fprintf(w, "Location:   %s, %s %s\n", loc.City, loc.Region, loc.PostalCode)
	fmt.Fprintf(w, "Timezone:   UTC %s\n", loc.Timezone)
	fmt.Fprintf(w, "ISP:        %s\n", rec.ISP)
	fmt.Fprintf(w, "Map:        %.6f, %.6f\n", loc.Lat, loc.Lng)
}
