package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	serviceName   = "codeglot"
	geminiAccount = "gemini-api-key"
	geminiEnvVar  = "GEMINI_API_KEY"
)

// GetKey retrieves the Gemini API key, preferring the OS keychain over
// the environment. The second return value names the source for user
// feedback. If allowEnv is false, environment variables are ignored.
func GetKey(allowEnv bool) (string, string) {
	key, err := keyring.Get(serviceName, geminiAccount)
	if err == nil && key != "" {
		return strings.TrimSpace(key), "Keychain"
	}

	if allowEnv {
		key = os.Getenv(geminiEnvVar)
		if key != "" {
			return strings.TrimSpace(key), "Environment Variable"
		}
	}

	return "", ""
}

// SaveKey stores the API key in the OS keychain.
func SaveKey(key string) error {
	return keyring.Set(serviceName, geminiAccount, strings.TrimSpace(key))
}

// DeleteKey removes the API key from the OS keychain.
func DeleteKey() error {
	return keyring.Delete(serviceName, geminiAccount)
}

// GetStatus reports whether a key is stored in the keychain.
func GetStatus() bool {
	key, err := keyring.Get(serviceName, geminiAccount)
	return err == nil && key != ""
}

// PromptForAPIKey reads the key from the terminal without echo.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Print(prompt)
	byteKey, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(byteKey)), nil
}

// GetEnvKey retrieves the key from the environment only.
func GetEnvKey() (string, bool) {
	key := strings.TrimSpace(os.Getenv(geminiEnvVar))
	if key == "" {
		return "", false
	}
	return key, true
}
