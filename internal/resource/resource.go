// Package resource maps each backend endpoint to one method. Every method
// issues exactly one HTTP call, logs a failure and returns the error
// unchanged so the state layer can classify it.
package resource

import (
	"log"

	"alcyxob/fitness-client/internal/apiclient"
	"alcyxob/fitness-client/internal/keystore"
)

// API groups the resource calls. It holds no entity state.
type API struct {
	client   *apiclient.Client
	geocoder *apiclient.Client
	store    keystore.Store
	logger   *log.Logger
}

// New wires the resource calls. geocoder may be nil when place search is
// not configured.
func New(client *apiclient.Client, geocoder *apiclient.Client, store keystore.Store) *API {
	return &API{
		client:   client,
		geocoder: geocoder,
		store:    store,
		logger:   client.Logger(),
	}
}

// fail logs err under op and hands it back untouched.
func (a *API) fail(op string, err error) error {
	a.logger.Printf("ERROR: %s: %v", op, err)
	return err
}
