package fleetxml

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KimNorgaard/go-fleetxml/extract"
	"github.com/KimNorgaard/go-fleetxml/tree"
)

// Char is a single character stored as its text form.
type Char rune

// MarshalText implements encoding.TextMarshaler.
func (c Char) MarshalText() ([]byte, error) {
	if !utf8.ValidRune(rune(c)) {
		return nil, fmt.Errorf("invalid character U+%04X", rune(c))
	}
	return []byte(string(rune(c))), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Char) UnmarshalText(text []byte) error {
	r, size := utf8.DecodeRune(text)
	switch {
	case len(text) == 0:
		return errors.New("expected a single character, got none")
	case r == utf8.RuneError && size == 1:
		return errors.New("invalid utf-8 sequence")
	case size != len(text):
		return fmt.Errorf("expected a single character, got %d", utf8.RuneCount(text))
	}
	*c = Char(r)
	return nil
}

// decodeScalar reads the text content of el into the scalar rv.
func decodeScalar(el *tree.Element, rv reflect.Value) error {
	text, err := extract.Text(el.Children)
	if err != nil {
		return err
	}
	if err := setScalar(text, rv); err != nil {
		return &ScalarError{Type: rv.Type(), Text: text, Err: err}
	}
	return nil
}

func setScalar(text string, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(text)
	case reflect.Bool:
		b, err := parseBool(strings.TrimSpace(text))
		if err != nil {
			return err
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, rv.Type().Bits())
		if err != nil {
			return unwrapNumError(err)
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(strings.TrimSpace(text), 10, rv.Type().Bits())
		if err != nil {
			return unwrapNumError(err)
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), rv.Type().Bits())
		if err != nil {
			return unwrapNumError(err)
		}
		rv.SetFloat(f)
	case reflect.Slice:
		rv.SetBytes([]byte(text))
	default:
		return fmt.Errorf("unsupported type")
	}
	return nil
}

// parseBool accepts the lexical forms of xsd:boolean.
func parseBool(s string) (bool, error) {
	switch s {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, errors.New("invalid boolean")
}

// unwrapNumError drops the function name and input from strconv errors;
// ScalarError already carries the text.
func unwrapNumError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

// scalarText returns the text form of the scalar v.
func scalarText(v reflect.Value) (string, error) {
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return string(v.Bytes()), nil
		}
	}
	return "", fmt.Errorf("fleetxml: unsupported type for encoding: %s", v.Type())
}
