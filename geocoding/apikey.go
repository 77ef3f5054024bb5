// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// Environment variables holding the Google Maps API key, in lookup order.
var apiKeyEnvVars = []string{"API_KEY", "GOOGLE_MAPS_API_KEY"}

// DefaultKeyDisplayName is the display name of the API key looked up via ADC.
const DefaultKeyDisplayName = "GroceryDist Geocoding Key"

// ResolveAPIKey returns the Google Maps API key from the environment, falling
// back to Application Default Credentials.
func ResolveAPIKey(ctx context.Context, displayName string) (string, error) {
	for _, name := range apiKeyEnvVars {
		if key := os.Getenv(name); key != "" {
			return key, nil
		}
	}

	log.Println("API_KEY is not set. Attempting to retrieve via ADC...")

	key, err := apiKeyFromADC(ctx, displayName)
	if err != nil {
		return "", fmt.Errorf("API_KEY is not set and ADC failed: %w", err)
	}

	log.Println("Retrieved Google Maps API key via ADC")

	return key, nil
}

func apiKeyFromADC(ctx context.Context, displayName string) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	projectID := creds.ProjectID
	if projectID == "" {
		return "", errors.New("no project id found in default credentials")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	if displayName == "" {
		displayName = DefaultKeyDisplayName
	}

	it := client.ListKeys(ctx, &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	})

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != displayName {
			continue
		}

		// ListKeys redacts the secret
		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: key.Name})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key '%s' found but its key string is empty", displayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name '%s' not found in project %s", displayName, projectID)
}
