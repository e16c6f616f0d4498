// Package nightscout is a client for a Nightscout-compatible remote store.
// It pulls data the loop did not produce itself, pushes what the loop
// computed, and keeps its own uploads out of what it pulls back.
package nightscout

import (
	"context"
	"net/http"
	"time"

	"github.com/justmara/ns-sync/internal/logging"
	"github.com/justmara/ns-sync/internal/profile"
)

// Client is safe for concurrent use: it holds no mutable state.
type Client struct {
	endpoint  Endpoint
	transport Transport
	storage   profile.Storage
	markers   Markers
	log       logging.Logger
}

type Option func(*Client)

func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithStorage sets where ImportProfile persists imported schedules.
func WithStorage(s profile.Storage) Option {
	return func(c *Client) { c.storage = s }
}

func WithMarkers(m Markers) Option {
	return func(c *Client) { c.markers = m }
}

func NewClient(endpoint Endpoint, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		markers:  DefaultMarkers(),
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewRestyTransport(nil)
	}
	c.log = c.log.With("category", "nightscout")
	return c
}

func (c *Client) newRequest(method, path string, q Query, body []byte) *Request {
	req := &Request{
		Method: method,
		URL:    c.endpoint.url(path, q),
		Header: http.Header{},
		Body:   body,
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.endpoint.authorize(req.Header)
	return req
}

// CheckConnection probes reachability and, when a secret is configured,
// that the secret is accepted: it posts a marker note to the treatments
// collection. Without a secret it only reads the collection.
func (c *Client) CheckConnection(ctx context.Context) error {
	var req *Request
	if c.endpoint.Authenticated() {
		note := connectionCheck{
			EventType: EventNote,
			EnteredBy: c.markers.ManualEntry,
			Notes:     c.markers.ManualEntry + " connected",
		}
		req = c.newRequest(http.MethodPost, treatmentsPath, nil, encode(note))
	} else {
		req = c.newRequest(http.MethodGet, treatmentsPath, nil, nil)
	}
	_, err := invoke(ctx, c.transport, c.log, req, oneShot)
	return err
}

// FetchGlucose returns sensor readings, those since the cursor when one is
// given. Failures are logged and yield an empty slice.
func (c *Client) FetchGlucose(ctx context.Context, since *time.Time) ([]BloodGlucose, error) {
	req := c.newRequest(http.MethodGet, entriesPath, glucoseQuery(since), nil)
	readings := fetchOrEmpty[BloodGlucose](ctx, c, "glucose", req)
	for i := range readings {
		readings[i].Glucose = readings[i].SGV
	}
	return readings, nil
}

// FetchCarbs returns carb entries not entered by this application.
// Failures are logged and yield an empty slice.
func (c *Client) FetchCarbs(ctx context.Context, since *time.Time) ([]CarbsEntry, error) {
	req := c.newRequest(http.MethodGet, treatmentsPath, carbsQuery(c.markers, since), nil)
	return fetchOrEmpty[CarbsEntry](ctx, c, "carbs", req), nil
}

// FetchTempTargets returns temporary targets not entered by this
// application. Failures are logged and yield an empty slice.
func (c *Client) FetchTempTargets(ctx context.Context, since *time.Time) ([]TempTarget, error) {
	req := c.newRequest(http.MethodGet, treatmentsPath, tempTargetsQuery(c.markers, since), nil)
	return fetchOrEmpty[TempTarget](ctx, c, "temp targets", req), nil
}

// FetchAnnouncements returns announcements entered by the remote marker.
// Unlike the other fetches, failures are returned.
func (c *Client) FetchAnnouncements(ctx context.Context, since *time.Time) ([]Announcement, error) {
	req := c.newRequest(http.MethodGet, treatmentsPath, announcementsQuery(c.markers, since), nil)
	body, err := invoke(ctx, c.transport, c.log, req, retried)
	if err != nil {
		return nil, err
	}
	return decode[[]Announcement](body)
}

func fetchOrEmpty[T any](ctx context.Context, c *Client, what string, req *Request) []T {
	body, err := invoke(ctx, c.transport, c.log, req, retried)
	if err == nil {
		var out []T
		if out, err = decode[[]T](body); err == nil && out != nil {
			return out
		}
	}
	if err != nil {
		c.log.Warn(ctx, what+" fetch failed", "err", err)
	}
	return []T{}
}

// DeleteCarbs removes the carb entries created exactly at at.
func (c *Client) DeleteCarbs(ctx context.Context, at time.Time) error {
	return c.delete(ctx, "carbs", at)
}

// DeleteInsulin removes the bolus treatments created exactly at at.
func (c *Client) DeleteInsulin(ctx context.Context, at time.Time) error {
	return c.delete(ctx, "bolus", at)
}

func (c *Client) delete(ctx context.Context, field string, at time.Time) error {
	req := c.newRequest(http.MethodDelete, treatmentsPath, deleteQuery(field, at), nil)
	_, err := invoke(ctx, c.transport, c.log, req, retried)
	return err
}

func (c *Client) UploadTreatments(ctx context.Context, treatments []Treatment) error {
	return c.upload(ctx, treatmentsPath, treatments)
}

func (c *Client) UploadGlucose(ctx context.Context, glucose []BloodGlucose) error {
	return c.upload(ctx, uploadEntriesPath, glucose)
}

func (c *Client) UploadStats(ctx context.Context, stats Statistics) error {
	return c.upload(ctx, statusPath, stats)
}

func (c *Client) UploadStatus(ctx context.Context, status DeviceStatus) error {
	return c.upload(ctx, statusPath, status)
}

func (c *Client) UploadPreferences(ctx context.Context, prefs PreferencesStatus) error {
	return c.upload(ctx, statusPath, prefs)
}

func (c *Client) UploadProfile(ctx context.Context, store profile.Store) error {
	return c.upload(ctx, profilePath, store)
}

func (c *Client) upload(ctx context.Context, path string, payload any) error {
	req := c.newRequest(http.MethodPost, path, nil, encode(payload))
	_, err := invoke(ctx, c.transport, c.log, req, retried)
	return err
}

// ImportProfile replaces the locally stored schedules with the remote
// "default" profile. It is a best-effort refresh: any fetch, status or
// decode failure, or a missing default profile, is logged and reported as
// false with nothing persisted. Once a profile is found all four entities
// are saved; save failures are in the result's SaveErr.
func (c *Client) ImportProfile(ctx context.Context) (*profile.ImportResult, bool) {
	if c.storage == nil {
		c.log.Error(ctx, "profile import skipped: no storage configured")
		return nil, false
	}

	req := c.newRequest(http.MethodGet, profilePath, profileQuery(), nil)
	body, err := invoke(ctx, c.transport, c.log, req, platform)
	if err != nil {
		c.log.Warn(ctx, "profile fetch failed", "err", err)
		return nil, false
	}

	stores, err := decode[[]profile.Store](body)
	if err != nil {
		c.log.Warn(ctx, "profile decode failed", "err", err)
		return nil, false
	}
	if len(stores) == 0 {
		c.log.Info(ctx, "no profile on the remote store")
		return nil, false
	}
	remote, ok := stores[0].Store[profile.DefaultName]
	if !ok {
		c.log.Info(ctx, "remote profile store has no default profile")
		return nil, false
	}

	set := profile.Convert(remote)
	res := &profile.ImportResult{Set: set, SaveErr: set.Save(ctx, c.storage)}
	if res.SaveErr != nil {
		c.log.Error(ctx, "profile import persisted partially", "err", res.SaveErr)
	} else {
		c.log.Info(ctx, "profile imported", "units", set.Units)
	}
	return res, true
}
