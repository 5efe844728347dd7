// Package auth provides Monday.com API token management.
// It implements a simple interface with multiple providers following the
// "deep modules" principle - simple interface, complex implementation hidden.
package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// EnvVar is the environment variable holding the Monday.com API token.
const EnvVar = "MONDAY_API_TOKEN"

// TokenProvider defines the interface for obtaining a Monday.com API token.
// Implementations may use different sources (process environment, .env
// files, etc).
type TokenProvider interface {
	GetToken() (string, error)
}

// EnvProvider obtains tokens from the MONDAY_API_TOKEN environment variable.
type EnvProvider struct{}

// GetToken reads the MONDAY_API_TOKEN environment variable.
// Returns an error if the variable is not set or is empty.
func (e *EnvProvider) GetToken() (string, error) {
	token := os.Getenv(EnvVar)
	if token == "" {
		return "", errors.New("MONDAY_API_TOKEN environment variable not set or empty")
	}
	return token, nil
}

// DotenvProvider obtains tokens from a local .env file, parsed as key=value
// lines with #-prefixed comments ignored.
type DotenvProvider struct {
	// Path is the .env file location. Defaults to ".env" in the working
	// directory when empty.
	Path string
}

// GetToken loads the .env file and reads MONDAY_API_TOKEN from it.
// Returns an error if the file is missing, unreadable, or does not define
// the token.
func (d *DotenvProvider) GetToken() (string, error) {
	path := d.Path
	if path == "" {
		path = ".env"
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	token := v.GetString(EnvVar)
	if token == "" {
		return "", fmt.Errorf("%s does not define %s", path, EnvVar)
	}

	return token, nil
}

// GetToken attempts to obtain a Monday.com API token using the following
// strategy:
// 1. Try the process environment first
// 2. Fall back to a .env file in the working directory
// 3. Return a clear, actionable error if both fail
//
// This is the main entry point for token retrieval in the application.
func GetToken() (string, error) {
	envProvider := &EnvProvider{}
	token, err := envProvider.GetToken()
	if err == nil {
		return token, nil
	}

	dotenv := &DotenvProvider{}
	token, err = dotenv.GetToken()
	if err == nil {
		return token, nil
	}

	return "", fmt.Errorf(
		"failed to obtain Monday.com API token: %w.\n"+
			"Please either:\n"+
			"  1. Set the MONDAY_API_TOKEN environment variable, or\n"+
			"  2. Create a .env file containing MONDAY_API_TOKEN=<your token>\n"+
			"To create a token: monday.com -> your avatar -> Developers -> My access tokens",
		err,
	)
}
