package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"parking-dashboard/models"
)

// Report builds the console summary over a cleaned, coerced table.
func (a *Aggregator) Report(table *models.MeterTable) (*models.MeterReport, error) {
	report := &models.MeterReport{TotalMeters: table.Len()}

	for i := range table.Records {
		if table.Records[i].TowAway {
			report.TowAwayMeters++
		}
	}

	var err error
	if report.BaseRate, err = a.AggregateByColumn(table, models.ColBaseRate); err != nil {
		return nil, err
	}
	if report.X, err = a.AggregateByColumn(table, models.ColX); err != nil {
		return nil, err
	}
	report.Zones = a.AggregateByZone(table)

	if table.DatesCoerced {
		if report.Installs, err = a.AggregateByInstallDate(table); err != nil {
			return nil, err
		}
	}

	a.logger.Debug("[aggregator] Report over %d meters, %d zones", report.TotalMeters, len(report.Zones))
	return report, nil
}

// Print writes the report to w.
func (a *Aggregator) Print(w io.Writer, r *models.MeterReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🅿  PARKING METERS SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Meters with coordinates : \033[1m%s\033[0m\n", humanize.Comma(int64(r.TotalMeters)))
	fmt.Fprintf(w, "  In tow-away zones       : \033[1m%s\033[0m\n", humanize.Comma(int64(r.TowAwayMeters)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Column Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, s := range []models.ColumnStats{r.BaseRate, r.X} {
		if !s.HasValues {
			fmt.Fprintf(w, "  %-10s no data available\n", s.Column)
			continue
		}
		fmt.Fprintf(w, "  %-10s average \033[1;32m%s\033[0m  maximum \033[1;32m%s\033[0m\n",
			s.Column, humanize.FormatFloat("#,###.####", s.Mean), humanize.FormatFloat("#,###.####", s.Max))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Meters by Zone\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Zones) == 0 {
		fmt.Fprintf(w, "  No zone data\n")
	} else {
		largest := 0
		for _, zc := range r.Zones {
			if zc.Count > largest {
				largest = zc.Count
			}
		}
		for _, zc := range r.Zones {
			fmt.Fprintf(w, "  %-24s %-30s %s\n",
				truncate(zc.Zone, 22), bar(zc.Count, largest, 30), humanize.Comma(int64(zc.Count)))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Installation Timeline\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Installs) == 0 {
		fmt.Fprintf(w, "  No installation dates\n")
	} else {
		first, last := r.Installs[0], r.Installs[len(r.Installs)-1]
		busiest := append([]models.InstallCount(nil), r.Installs...)
		sort.SliceStable(busiest, func(i, j int) bool { return busiest[i].Count > busiest[j].Count })
		fmt.Fprintf(w, "  First installation : %s\n", first.Date.Format("2006-01-02"))
		fmt.Fprintf(w, "  Last installation  : %s (%s installed in total)\n",
			last.Date.Format("2006-01-02"), humanize.Comma(int64(last.Cumulative)))
		fmt.Fprintf(w, "  Busiest day        : %s (%s meters)\n",
			busiest[0].Date.Format("2006-01-02"), humanize.Comma(int64(busiest[0].Count)))
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// bar scales count against largest into at most width blocks.
func bar(count, largest, width int) string {
	if largest == 0 {
		return ""
	}
	n := count * width / largest
	if n == 0 && count > 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
