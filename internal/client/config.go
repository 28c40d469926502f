package client

import (
	"os"

	"github.com/mdouchement/itemstore/pkg/itemsclient"
	"github.com/pkg/errors"
)

const (
	// DefaultEndpoint is the endpoint used when none is given.
	DefaultEndpoint = "http://127.0.0.1:5000"
	// EnvEndpoint is the environment variable holding the endpoint.
	EnvEndpoint = "ITEMSTORE_ENDPOINT"
)

// Endpoint returns the given endpoint, or the one from the environment, or DefaultEndpoint.
func Endpoint(endpoint string) string {
	if endpoint != "" {
		return endpoint
	}
	if endpoint = os.Getenv(EnvEndpoint); endpoint != "" {
		return endpoint
	}
	return DefaultEndpoint
}

// New returns a client for the resolved endpoint.
func New(endpoint string) (itemsclient.Client, error) {
	client, err := itemsclient.NewDefaultClient(Endpoint(endpoint))
	return client, errors.Wrap(err, "could not reach itemstore endpoint")
}
