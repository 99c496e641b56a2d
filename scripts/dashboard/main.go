package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"incident-dashboard/be/client"
	"incident-dashboard/be/config"
	"incident-dashboard/be/dashboard"
	"incident-dashboard/be/logging"
	"incident-dashboard/be/timeline"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

const usage = `usage: dashboard [-api URL] <command> [args]

commands:
  list              show unresolved incidents and the current selection
  timeline          show the 24h timeline per camera
  resolve <id>      mark an incident resolved and reload
  watch             print the dashboard every time an incident is resolved
`

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	cfg := config.Load()
	logging.Setup(cfg.Log)

	apiURL := flag.String("api", "http://localhost:"+cfg.Server.Port, "incident dashboard API base URL")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	api, err := client.New(*apiURL)
	if err != nil {
		log.WithError(err).Fatal("invalid api url")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := dashboard.NewController(api)
	loc := cfg.Timeline.Location()

	switch cmd := flag.Arg(0); cmd {
	case "list":
		if err := ctrl.Load(ctx); err != nil {
			os.Exit(1)
		}
		printIncidents(ctrl.Snapshot(), loc)

	case "timeline":
		if err := ctrl.Load(ctx); err != nil {
			os.Exit(1)
		}
		s := ctrl.Snapshot()
		printTimeline(timeline.Build(s.Cameras, s.Incidents, time.Now(), loc), loc)

	case "resolve":
		if flag.NArg() < 2 {
			flag.Usage()
			os.Exit(2)
		}
		if err := ctrl.Resolve(ctx, flag.Arg(1)); err != nil {
			os.Exit(1)
		}
		printIncidents(ctrl.Snapshot(), loc)

	case "watch":
		if err := ctrl.Load(ctx); err != nil {
			os.Exit(1)
		}
		printIncidents(ctrl.Snapshot(), loc)

		ctrl.OnChange(func(s dashboard.State) {
			if !s.Loading {
				printIncidents(s, loc)
			}
		})
		if err := ctrl.Watch(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("event stream closed")
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
}

func printIncidents(s dashboard.State, loc *time.Location) {
	fmt.Printf("%d unresolved incidents\n", len(s.Incidents))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tCAMERA\tTYPE\tSTART\tEND")
	for _, i := range s.Incidents {
		marker := ""
		if s.SelectedIncident != nil && s.SelectedIncident.ID == i.ID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", marker, i.ID, i.Camera.Name, i.Type,
			i.TsStart.In(loc).Format("15:04:05"), i.TsEnd.In(loc).Format("15:04:05"))
	}
	w.Flush()

	if s.SelectedCamera != nil {
		fmt.Printf("viewing camera %s (%s)\n", s.SelectedCamera.Name, s.SelectedCamera.Location)
	}
}

func printTimeline(v timeline.View, loc *time.Location) {
	const width = 72

	fmt.Printf("now %s\n", v.CurrentTime.In(loc).Format("15:04:05"))
	for _, row := range v.Rows {
		line := []rune(strings.Repeat("·", width))
		for _, m := range row.Markers {
			line[int(m.Position*width)] = glyph(m)
		}
		line[int(v.Now*width)] = '|'
		fmt.Printf("cam %-4s %s\n", row.Camera.Name, string(line))
	}

	for _, bucket := range v.Hours {
		fmt.Printf("%02d:00  %d incidents\n", bucket.Hour, len(bucket.Incidents))
	}
}

func glyph(m timeline.Marker) rune {
	if m.Stacked {
		if m.StackCount < 10 {
			return rune('0' + m.StackCount)
		}
		return '+'
	}
	switch m.Category.Severity {
	case timeline.SeverityCritical:
		return '!'
	case timeline.SeverityHigh, timeline.SeverityElevated:
		return '^'
	default:
		return 'o'
	}
}
