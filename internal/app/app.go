// Package app builds the client's shared objects once and hands them out
// by reference.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"alcyxob/fitness-client/internal/apiclient"
	"alcyxob/fitness-client/internal/config"
	"alcyxob/fitness-client/internal/keystore"
	"alcyxob/fitness-client/internal/resource"
	"alcyxob/fitness-client/internal/state"
)

// App holds one instance of every store. Screens receive the stores they
// need from here instead of looking them up.
type App struct {
	Store    keystore.Store
	Client   *apiclient.Client
	API      *resource.API
	Auth     *state.AuthStore
	Users    *state.UserStore
	Groups   *state.GroupStore
	Workouts *state.WorkoutStore
	Trainers *state.TrainerStore
	logger   *log.Logger
}

type options struct {
	store      keystore.Store
	httpClient *http.Client
	logger     *log.Logger
}

// Option customizes New.
type Option func(*options)

// WithStore overrides the keystore chosen from config.
func WithStore(s keystore.Store) Option {
	return func(o *options) { o.store = s }
}

// WithHTTPClient is mostly for tests pointing at httptest servers. The
// client's own Timeout applies instead of api.timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New wires the client from cfg.
func New(cfg config.Config, opts ...Option) (*App, error) {
	o := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.store == nil {
		if cfg.Storage.Path == "" {
			o.store = keystore.NewMemory()
		} else {
			s, err := keystore.OpenSQLite(cfg.Storage.Path)
			if err != nil {
				return nil, fmt.Errorf("open keystore: %w", err)
			}
			o.store = s
		}
	}

	clientOpts := []apiclient.Option{apiclient.WithLogger(o.logger)}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, apiclient.WithHTTPClient(o.httpClient))
	} else {
		clientOpts = append(clientOpts, apiclient.WithTimeout(cfg.API.Timeout))
	}
	client := apiclient.New(cfg.API.BaseURL, keystore.TokenSource{Store: o.store}, clientOpts...)

	var geocoder *apiclient.Client
	if cfg.Geocoder.URL != "" {
		geocoder = apiclient.New(cfg.Geocoder.URL, nil,
			apiclient.WithLogger(o.logger),
			apiclient.WithTimeout(cfg.API.Timeout),
			apiclient.WithUserAgent(cfg.Geocoder.UserAgent),
		)
	}

	api := resource.New(client, geocoder, o.store)
	auth := state.NewAuthStore(api)
	return &App{
		Store:    o.store,
		Client:   client,
		API:      api,
		Auth:     auth,
		Users:    state.NewUserStore(api, auth),
		Groups:   state.NewGroupStore(api, auth),
		Workouts: state.NewWorkoutStore(api, auth),
		Trainers: state.NewTrainerStore(api, auth),
		logger:   o.logger,
	}, nil
}

// Start restores a persisted session, if any.
func (a *App) Start(ctx context.Context) (bool, error) {
	ok, err := a.Auth.Restore(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		a.logger.Printf("INFO: restored session for user %s", a.Auth.CurrentUserID())
	}
	return ok, nil
}

// Logout signs out and drops every cached record.
func (a *App) Logout(ctx context.Context) error {
	err := a.Auth.Logout(ctx)
	a.Users.Reset()
	a.Groups.Reset()
	a.Workouts.Reset()
	a.Trainers.Reset()
	return err
}

// Close releases the keystore.
func (a *App) Close() error {
	return a.Store.Close()
}
