// Package auth keeps WordPress application passwords in the system keyring,
// one entry per site host.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/pf-cli/pf/constant"
	"github.com/pf-cli/pf/log"
	"github.com/zalando/go-keyring"
)

var service = constant.Pf + "-cli"

// Credentials are sent as HTTP basic auth to the site they belong to.
type Credentials struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// Host normalizes a site address into the keyring entry name.
func Host(site string) (string, error) {
	u, err := url.Parse(site)
	if err != nil {
		return "", fmt.Errorf("invalid site address %q: %w", site, err)
	}

	if u.Host == "" {
		return "", fmt.Errorf("invalid site address %q: missing host", site)
	}

	return u.Host, nil
}

// Set stores credentials for the site, replacing existing ones.
func Set(site string, c Credentials) error {
	host, err := Host(site)
	if err != nil {
		return err
	}

	secret, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return keyring.Set(service, host, string(secret))
}

// Get returns the credentials stored for the site.
func Get(site string) (Credentials, error) {
	host, err := Host(site)
	if err != nil {
		return Credentials{}, err
	}

	return get(host)
}

func get(host string) (Credentials, error) {
	secret, err := keyring.Get(service, host)
	if err != nil {
		return Credentials{}, err
	}

	var c Credentials
	if err := json.Unmarshal([]byte(secret), &c); err != nil {
		return Credentials{}, fmt.Errorf("corrupt keyring entry for %s: %w", host, err)
	}

	return c, nil
}

// Delete removes the site's credentials.
func Delete(site string) error {
	host, err := Host(site)
	if err != nil {
		return err
	}

	return keyring.Delete(service, host)
}

// Lookup adapts the keyring to network.CredentialsFunc. A missing entry or an
// unavailable keyring both mean "no credentials".
func Lookup(host string) (user, password string, ok bool) {
	c, err := get(host)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Warnf("keyring lookup for %s: %s", host, err)
		}
		return "", "", false
	}

	return c.User, c.Password, true
}
