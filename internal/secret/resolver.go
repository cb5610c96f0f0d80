// Package secret resolves configuration values supplied either in plain text or encrypted.
package secret

import (
	"github.com/mrz1836/configrepo/internal/crypto"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

// Resolver turns plain or encrypted inputs into domain secure values.
// It never encrypts.
type Resolver struct {
	decrypter crypto.Decrypter
}

// NewResolver creates a Resolver decrypting with d.
func NewResolver(d crypto.Decrypter) *Resolver {
	return &Resolver{decrypter: d}
}

// Resolve returns a secure value when encrypted is set, otherwise the plain value.
// field names the value in error messages.
func (r *Resolver) Resolve(field, plain, encrypted string) (domain.SecureValue, error) {
	if encrypted == "" {
		return domain.PlainValue(plain), nil
	}
	if r.decrypter == nil {
		return domain.SecureValue{}, crerrors.WrapConversionError(crerrors.ErrSecretResolution,
			crerrors.ErrCipherKeyNotLoaded, "failed to decrypt %s", field)
	}
	decrypted, err := r.decrypter.Decrypt(encrypted)
	if err != nil {
		return domain.SecureValue{}, crerrors.WrapConversionError(crerrors.ErrSecretResolution,
			err, "failed to decrypt %s", field)
	}
	return domain.SecretValue(decrypted), nil
}

// EnvironmentVariable resolves a variable value.
func (r *Resolver) EnvironmentVariable(name, plain, encrypted string) (domain.EnvironmentVariable, error) {
	value, err := r.Resolve("environment variable "+quote(name), plain, encrypted)
	if err != nil {
		return domain.EnvironmentVariable{}, err
	}
	return domain.EnvironmentVariable{Name: name, Value: value}, nil
}

// ConfigurationProperty resolves a plugin setting.
func (r *Resolver) ConfigurationProperty(key, plain, encrypted string) (domain.ConfigurationProperty, error) {
	value, err := r.Resolve("configuration property "+quote(key), plain, encrypted)
	if err != nil {
		return domain.ConfigurationProperty{}, err
	}
	return domain.ConfigurationProperty{Key: key, Value: value}, nil
}

func quote(s string) string {
	return `"` + s + `"`
}
