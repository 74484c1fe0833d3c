// Package auth stores the plugin-store account token in the OS keychain.
package auth

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	serviceName  = "deckhand"
	storeAccount = "store-token"
)

// GetStoreToken retrieves the plugin-store token from the keychain.
func GetStoreToken() (string, bool) {
	token, err := keyring.Get(serviceName, storeAccount)
	if err != nil || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// SaveStoreToken saves the plugin-store token to the OS keychain.
func SaveStoreToken(token string) error {
	return keyring.Set(serviceName, storeAccount, strings.TrimSpace(token))
}

// DeleteStoreToken removes the plugin-store token from the OS keychain.
func DeleteStoreToken() error {
	return keyring.Delete(serviceName, storeAccount)
}

// HasStoreToken reports whether a token exists in the keychain.
func HasStoreToken() bool {
	_, ok := GetStoreToken()
	return ok
}

// PromptForToken securely prompts the user for the store token on the
// terminal.
func PromptForToken(prompt string) (string, error) {
	fmt.Print(prompt)
	byteToken, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Newline after hidden input
	return strings.TrimSpace(string(byteToken)), nil
}
