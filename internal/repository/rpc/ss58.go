package rpc

import (
	"errors"
	"fmt"

	"github.com/vedhavyas/go-subkey/v2"
)

// ss58 address layout constants
const (
	ss58PublicKeyLength = 32
	ss58MaxFormat       = 16383
)

// encodeSS58 renders a 32 bytes public key as an SS58 address of the given format.
func encodeSS58(pub []byte, format uint16) (string, error) {
	if len(pub) != ss58PublicKeyLength {
		return "", errors.New("invalid public key length")
	}
	// the codec masks out the upper bits of bigger formats silently
	if format > ss58MaxFormat {
		return "", errors.New("invalid address format")
	}
	return subkey.SS58Encode(pub, format), nil
}

// decodeSS58 parses an SS58 address into the public key and the address format.
func decodeSS58(addr string) ([]byte, uint16, error) {
	format, pub, err := subkey.SS58Decode(addr)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid address; %w", err)
	}
	if len(pub) != ss58PublicKeyLength {
		return nil, 0, errors.New("invalid address length")
	}
	return pub, format, nil
}
