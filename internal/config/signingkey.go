package config

import (
	"encoding/base64"
	"fmt"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

// LoadSigningKey resolves the configured token signing key. The referenced
// value is base64 encoded so that the full byte range is usable as key
// material.
func LoadSigningKey(conf Auth) ([]byte, error) {
	raw, err := commoncfg.LoadValueFromSourceRef(conf.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("loading signing key: %w", err)
	}

	key, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding signing key: %w", err)
	}

	return key, nil
}
