package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/cityevents/internal/batch"
	"github.com/pfrederiksen/cityevents/internal/cities"
	"github.com/pfrederiksen/cityevents/internal/filter"
	"github.com/pfrederiksen/cityevents/internal/horoscope"
	"github.com/pfrederiksen/cityevents/internal/logger"
	"github.com/pfrederiksen/cityevents/internal/server"
	"github.com/pfrederiksen/cityevents/internal/storage"
	"github.com/spf13/cobra"
)

func newScrapeCmd(g *globalOptions) *cobra.Command {
	var (
		all       bool
		noDetails bool
		dryRun    bool
		format    string
	)

	cmd := &cobra.Command{
		Use:   "scrape [city...]",
		Short: "Scrape events for one or more cities and save them",
		Long: `Scrape the metro-area listing page of each named city and save every event.
Use --all to scrape every known city. Failures are logged per city and never
stop the run.`,
		Example: `  cityevents scrape Austin "San Jose"
  cityevents scrape --all --no-details
  cityevents scrape Dallas --dry-run --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return fmt.Errorf("name at least one city or pass --all")
			}
			if len(args) > 0 && all {
				return fmt.Errorf("--all cannot be combined with city names")
			}
			out, err := parseFormat(format, FormatText, FormatJSON)
			if err != nil {
				return err
			}
			targets, err := batch.Resolve(args)
			if err != nil {
				return err
			}

			a, err := newApp(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			// Left as a nil interface in dry-run mode.
			var store batch.Store
			if !dryRun {
				st, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close()
				store = st
			}

			runner := batch.New(a.scraper(!noDetails), store, batch.Options{
				Logger:  a.log,
				Metrics: a.metrics,
				DryRun:  dryRun,
			})
			report := runner.Run(ctx, targets)

			if err := WriteReport(cmd.OutOrStdout(), report, out, g.verbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Scrape every known city")
	cmd.Flags().BoolVar(&noDetails, "no-details", false, "Skip fetching each event's detail page")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Scrape and print without saving")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}

func newEventsCmd(g *globalOptions) *cobra.Command {
	var (
		q      storage.Query
		fq     filter.Query
		sortBy string
		format string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List saved events",
		Example: `  cityevents events --city Austin --weekends
  cityevents events --state TX --dates "Mar 1-15" --sort date
  cityevents events --city Dallas --upcoming --venue "Fair Park" --max-price 30
  cityevents events --city Austin --format ics > austin.ics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := parseFormat(format, FormatText, FormatJSON, FormatICS)
			if err != nil {
				return err
			}
			order, err := parseSortOrder(sortBy)
			if err != nil {
				return err
			}
			f, err := filter.FromQuery(fq)
			if err != nil {
				return err
			}

			a, err := newApp(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.ListEvents(cmd.Context(), q)
			if err != nil {
				return err
			}
			rows = filterRows(rows, f)
			sortRows(rows, order)

			if g.verbose && !f.IsEmpty() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Filters: %s\n", f)
			}
			if err := WriteEvents(cmd.OutOrStdout(), rows, out, g.verbose, calendarName(q)); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&q.City, "city", "", "City name, e.g. Austin")
	cmd.Flags().StringVar(&q.State, "state", "", "State code, e.g. TX")
	cmd.Flags().StringVar(&q.Category, "category", "", "Category label, e.g. \"Comedy Shows\"")
	cmd.Flags().StringVar(&q.Keyword, "q", "", "Keyword matched against title and description")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "Maximum rows to read (0 means no limit)")
	cmd.Flags().StringVar(&fq.Dates, "dates", "", "Date range: \"Mar 1-15\", \"March 1 - April 15\" or \"March\"")
	cmd.Flags().BoolVar(&fq.WeekendsOnly, "weekends", false, "Only events on Saturday or Sunday")
	cmd.Flags().BoolVar(&fq.UpcomingOnly, "upcoming", false, "Only events dated today or later")
	cmd.Flags().StringArrayVar(&fq.Venues, "venue", nil, "Venue name contains (repeatable)")
	cmd.Flags().StringArrayVar(&fq.Locations, "location", nil, "Location contains, e.g. \"Round Rock\" (repeatable)")
	cmd.Flags().StringArrayVar(&fq.Performers, "performer", nil, "Any performer name contains (repeatable)")
	cmd.Flags().Float64Var(&fq.MaxPrice, "max-price", 0, "Maximum starting price (0 means no limit)")
	cmd.Flags().StringVar(&sortBy, "sort", string(SortByDate), "Sort order: date, title or venue")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or ics")

	return cmd
}

func newHoroscopeCmd(g *globalOptions) *cobra.Command {
	var (
		simple bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "horoscope [sign]",
		Short: "Fetch today's horoscope for every sign, or for one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := parseFormat(format, FormatText, FormatJSON)
			if err != nil {
				return err
			}
			a, err := newApp(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			client := a.horoscopes()
			ctx := cmd.Context()

			var readings []horoscope.Reading
			if len(args) == 1 {
				r, err := client.Sign(ctx, args[0])
				if err != nil {
					return err
				}
				readings = []horoscope.Reading{r}
			} else {
				readings, err = client.Readings(ctx)
				if err != nil {
					return err
				}
			}

			if simple {
				briefs := make([]horoscope.Brief, len(readings))
				for i, r := range readings {
					briefs[i] = r.Brief()
				}
				return WriteBriefs(cmd.OutOrStdout(), briefs, out)
			}
			return WriteReadings(cmd.OutOrStdout(), readings, out)
		},
	}

	cmd.Flags().BoolVar(&simple, "simple", false, "Show one prediction per sign")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}

func newCitiesCmd(g *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List the known cities and their listing slugs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := parseFormat(format, FormatText, FormatJSON)
			if err != nil {
				return err
			}
			return WriteCities(cmd.OutOrStdout(), cities.All(), out)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.AddCommand(newCityAddCmd(g))
	return cmd
}

// newCityAddCmd seeds a mastercity row so scraped events for the city can be saved.
func newCityAddCmd(g *globalOptions) *cobra.Command {
	var c storage.City

	cmd := &cobra.Command{
		Use:   "add <city> <state>",
		Short: "Add a city to the reference table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.City = strings.TrimSpace(args[0])
			c.State = strings.ToUpper(strings.TrimSpace(args[1]))
			if c.City == "" || c.State == "" {
				return fmt.Errorf("city and state must not be empty")
			}
			if c.Key == "" {
				if entry, ok := cities.Lookup(c.City); ok {
					c.Key = entry.Slug
				}
			}

			a, err := newApp(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if existing, err := store.CityByName(cmd.Context(), c.City); err == nil {
				return fmt.Errorf("city %s already exists (state %s)", existing.City, existing.State)
			} else if !errors.Is(err, storage.ErrCityNotFound) {
				return err
			}

			if err := store.SaveCity(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s, %s.\n", c.City, c.State)
			return nil
		},
	}

	f := cmd.Flags()
	f.Int64Var(&c.ID, "id", 0, "mastercity id")
	f.StringVar(&c.Geohash, "geohash", "", "Geohash of the city center")
	f.StringVar(&c.Lat, "lat", "", "Latitude")
	f.StringVar(&c.Long, "long", "", "Longitude")
	f.StringVar(&c.Key, "key", "", "City key (default: the listing slug when known)")
	f.StringVar(&c.Status, "status", "active", "Row status")
	return cmd
}

func newMigrateCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Tables ready (%s).\n", store.Driver())
			return nil
		},
	}
}

func newServeCmd(g *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if a.cfg.Server.Mode != "" {
				gin.SetMode(a.cfg.Server.Mode)
			}

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runner := batch.New(a.scraper(true), store, batch.Options{
				Logger:  a.log,
				Metrics: a.metrics,
			})
			router := server.NewRouter(server.Deps{
				Runner:     runner,
				Store:      store,
				Horoscopes: a.horoscopes(),
				Metrics:    a.metrics,
				Logger:     a.log.With(logger.Fields{"component": "http"}),
			})

			return server.New(addr, router, a.log).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func filterRows(rows []storage.Row, f *filter.Filter) []storage.Row {
	if f.IsEmpty() {
		return rows
	}
	out := rows[:0:0]
	for _, row := range rows {
		if f.Matches(row.Record) {
			out = append(out, row)
		}
	}
	return out
}

func calendarName(q storage.Query) string {
	parts := []string{"Community Events"}
	if q.City != "" {
		parts = append(parts, q.City)
	}
	if q.State != "" {
		parts = append(parts, strings.ToUpper(q.State))
	}
	return strings.Join(parts, " - ")
}
