package main

import (
	"context"
	"fmt"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/icons"
	"github.com/cape-app/cape/internal/session"
	"github.com/spf13/viper"
)

// defaultAPIURL is used when no base URL is configured.
const defaultAPIURL = "http://localhost:3000"

// initSession opens the persisted session store.
func initSession() (*session.Store, error) {
	path, err := session.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate session file: %w", err)
	}
	return session.NewStore(path, nil), nil
}

// initClient builds the API client over the persisted session.
func initClient() (*api.Client, *session.Store, error) {
	store, err := initSession()
	if err != nil {
		return nil, nil, err
	}

	baseURL := viper.GetString("api.base_url")
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	client, err := api.NewClient(baseURL, store)
	if err != nil {
		return nil, nil, err
	}
	return client, store, nil
}

// initGuard wires the role guard over the client and session.
func initGuard() (*api.Client, *session.Guard, error) {
	client, store, err := initClient()
	if err != nil {
		return nil, nil, err
	}
	return client, session.NewGuard(store, client), nil
}

// requireSignIn fails fast with a friendly hint when signed out.
func requireSignIn(ctx context.Context, guard *session.Guard) error {
	if err := guard.RequireAuth(ctx); err != nil {
		return fmt.Errorf("not signed in - run 'cape auth login' first: %w", err)
	}
	return nil
}

// initRecents opens the persisted recently-used icon list.
func initRecents() (*icons.Recents, error) {
	path, err := icons.DefaultRecentsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate recent icons file: %w", err)
	}
	return icons.NewRecents(path), nil
}
