package quiz

import (
	"fmt"
	"os"
)

// ConfigurationError indicates a generation request named a credential
// slot that is unknown or has no secret configured.
type ConfigurationError struct {
	Slot string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("API key not found for %s. Please check your environment variables.", e.Slot)
}

// Credentials maps named credential slots to provider API keys.
// Slots are resolved from the environment once at startup so a missing
// secret shows up in the logs immediately, not on the first request.
type Credentials map[string]string

// slotEnvVars maps the client-facing slot names to the environment
// variables holding the actual secrets.
var slotEnvVars = map[string]string{
	"GROQ1": "GROQ_API_KEY_1",
	"GROQ2": "GROQ_API_KEY_2",
	"GROQ3": "GROQ_API_KEY_3",
	"GROQ4": "GROQ_API_KEY_4",
}

// CredentialsFromEnv resolves every known slot against the environment.
// Slots whose variable is unset or empty are left out of the map.
func CredentialsFromEnv() Credentials {
	creds := Credentials{}
	for slot, envVar := range slotEnvVars {
		if v := os.Getenv(envVar); v != "" {
			creds[slot] = v
		}
	}
	return creds
}

// Resolve returns the API key for a slot, or a ConfigurationError if the
// slot is unknown or unconfigured.
func (c Credentials) Resolve(slot string) (string, error) {
	key, ok := c[slot]
	if !ok {
		return "", &ConfigurationError{Slot: slot}
	}
	return key, nil
}
