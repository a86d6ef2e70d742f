package codec

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

func Decode[T any](bz []byte) (T, error) {
	val := new(T)
	err := json.Unmarshal(bz, val)
	if err != nil {
		return *val, eris.Wrap(err, "failed to decode json")
	}
	return *val, nil
}

func Encode(val any) ([]byte, error) {
	bz, err := json.Marshal(val)
	if err != nil {
		return nil, eris.Wrap(err, "failed to encode json")
	}
	return bz, nil
}

// EncodeString marshals val and returns it as a string. The bridge envelope carries bodies as JSON-encoded
// strings nested inside the outer JSON object.
func EncodeString(val any) (string, error) {
	bz, err := Encode(val)
	if err != nil {
		return "", err
	}
	return string(bz), nil
}

// DecodeString is the inverse of EncodeString.
func DecodeString[T any](s string) (T, error) {
	return Decode[T]([]byte(s))
}

// Valid reports whether bz is a well-formed JSON document.
func Valid(bz []byte) bool {
	return json.Valid(bz)
}
