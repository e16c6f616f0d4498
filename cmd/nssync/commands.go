package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/justmara/ns-sync/internal/export"
	"github.com/justmara/ns-sync/internal/nightscout"
	"github.com/justmara/ns-sync/internal/profile"
	"github.com/justmara/ns-sync/internal/storage"
)

func (a *app) checkCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "check",
		ShortUsage: "nssync check",
		ShortHelp:  "probe reachability and the API secret",
		Exec: func(ctx context.Context, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.CheckConnection(ctx); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "ok")
			return nil
		},
	}
}

// sinceFlag registers -since on fs and returns a getter for the parsed
// cursor; an empty flag means no cursor.
func sinceFlag(fs *flag.FlagSet) func() (*time.Time, error) {
	raw := fs.String("since", "", "only records after this RFC3339 time")
	return func() (*time.Time, error) {
		if *raw == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, *raw)
		if err != nil {
			return nil, fmt.Errorf("parse -since: %w", err)
		}
		return &t, nil
	}
}

func (a *app) fetchCommand(name, help string) *ffcli.Command {
	fs := flag.NewFlagSet("nssync "+name, flag.ContinueOnError)
	since := sinceFlag(fs)
	return &ffcli.Command{
		Name:       name,
		ShortUsage: "nssync " + name + " [-since <time>]",
		ShortHelp:  "fetch " + help,
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			cursor, err := since()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			var out any
			switch name {
			case "glucose":
				out, err = c.FetchGlucose(ctx, cursor)
			case "carbs":
				out, err = c.FetchCarbs(ctx, cursor)
			case "temptargets":
				out, err = c.FetchTempTargets(ctx, cursor)
			case "announcements":
				out, err = c.FetchAnnouncements(ctx, cursor)
			}
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
}

func (a *app) deleteCommand(name, what string) *ffcli.Command {
	fs := flag.NewFlagSet("nssync "+name, flag.ContinueOnError)
	at := fs.String("at", "", "creation time of the records to delete (RFC3339)")
	return &ffcli.Command{
		Name:       name,
		ShortUsage: "nssync " + name + " -at <time>",
		ShortHelp:  "delete " + what + " records created at an exact time",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			t, err := time.Parse(time.RFC3339, *at)
			if err != nil {
				return fmt.Errorf("parse -at: %w", err)
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if what == "carbs" {
				return c.DeleteCarbs(ctx, t)
			}
			return c.DeleteInsulin(ctx, t)
		},
	}
}

func (a *app) uploadCommand() *ffcli.Command {
	fs := flag.NewFlagSet("nssync upload", flag.ContinueOnError)
	kind := fs.String("kind", "", "treatments, glucose, stats, status, preferences or profile")
	file := fs.String("file", "-", "JSON payload file, - for stdin")
	return &ffcli.Command{
		Name:       "upload",
		ShortUsage: "nssync upload -kind <kind> [-file <path>]",
		ShortHelp:  "upload a JSON payload",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			payload, err := readPayload(*file)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			return uploadKind(ctx, c, *kind, payload)
		},
	}
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return b, nil
}

func uploadKind(ctx context.Context, c *nightscout.Client, kind string, payload []byte) error {
	switch kind {
	case "treatments":
		return decodeAndUpload(ctx, payload, c.UploadTreatments)
	case "glucose":
		return decodeAndUpload(ctx, payload, c.UploadGlucose)
	case "stats":
		return decodeAndUpload(ctx, payload, c.UploadStats)
	case "status":
		return decodeAndUpload(ctx, payload, c.UploadStatus)
	case "preferences":
		return decodeAndUpload(ctx, payload, c.UploadPreferences)
	case "profile":
		return decodeAndUpload(ctx, payload, c.UploadProfile)
	default:
		return fmt.Errorf("unknown upload kind %q", kind)
	}
}

func decodeAndUpload[T any](ctx context.Context, payload []byte, upload func(context.Context, T) error) error {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return upload(ctx, v)
}

func (a *app) importProfileCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "import-profile",
		ShortUsage: "nssync import-profile",
		ShortHelp:  "replace the stored schedules with the remote default profile",
		Exec: func(ctx context.Context, _ []string) error {
			store, closeStore, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			c, err := a.client(nightscout.WithStorage(store))
			if err != nil {
				return err
			}
			res, ok := c.ImportProfile(ctx)
			if !ok {
				fmt.Fprintln(a.out, "no profile imported")
				return nil
			}
			return a.print(newSetOutput(res.Set, res.SaveErr))
		},
	}
}

func (a *app) showProfileCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "show-profile",
		ShortUsage: "nssync show-profile",
		ShortHelp:  "print the schedules stored by the last import",
		Exec: func(ctx context.Context, _ []string) error {
			store, closeStore, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			set, err := profile.LoadSet(ctx, store)
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintln(a.out, "no profile stored")
				return nil
			}
			if err != nil {
				return err
			}
			return a.print(newSetOutput(set, nil))
		},
	}
}

type setOutput struct {
	Units         profile.GlucoseUnits         `json:"units"`
	CarbRatios    profile.CarbRatios           `json:"carb_ratios"`
	Basal         profile.BasalProfile         `json:"basal_profile"`
	Sensitivities profile.InsulinSensitivities `json:"insulin_sensitivities"`
	Targets       profile.BGTargets            `json:"bg_targets"`
	SaveErr       string                       `json:"save_error,omitempty"`
}

func newSetOutput(s profile.Set, saveErr error) setOutput {
	return setOutput{s.Units, s.CarbRatios, s.Basal, s.Sensitivities, s.Targets, errString(saveErr)}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (a *app) exportCommand() *ffcli.Command {
	fs := flag.NewFlagSet("nssync export", flag.ContinueOnError)
	since := sinceFlag(fs)
	return &ffcli.Command{
		Name:       "export",
		ShortUsage: "nssync export [-since <time>]",
		ShortHelp:  "copy glucose and treatments into InfluxDB",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			cursor, err := since()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}

			influx := influxdb2.NewClient(a.cfg.InfluxURL, a.cfg.InfluxToken)
			defer influx.Close()
			exporter := export.NewExporter(c, influx.WriteAPIBlocking(a.cfg.InfluxOrg, a.cfg.InfluxBucket), a.logger())

			glucose, err := exporter.ExportGlucose(ctx, cursor)
			if err != nil {
				return err
			}
			treatments, err := exporter.ExportTreatments(ctx, cursor)
			if err != nil {
				return err
			}
			return a.print(map[string]int{"glucose": glucose, "treatments": treatments})
		},
	}
}
