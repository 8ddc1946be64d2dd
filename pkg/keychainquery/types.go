package keychainquery

import (
	"fmt"
	"strings"
)

// DataType is the kind of secret or object a request targets.
type DataType int

const (
	InternetPassword DataType = iota + 1
	GenericPassword
	Certificate
	CryptoKey
	Identity
)

var dataTypeNames = map[DataType]string{
	InternetPassword: "internet-password",
	GenericPassword:  "generic-password",
	Certificate:      "certificate",
	CryptoKey:        "key",
	Identity:         "identity",
}

// DataTypes returns every supported data type in declaration order.
func DataTypes() []DataType {
	return []DataType{InternetPassword, GenericPassword, Certificate, CryptoKey, Identity}
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int(t))
}

// Valid reports whether t is one of the declared data types.
func (t DataType) Valid() bool {
	_, ok := dataTypeNames[t]
	return ok
}

// ParseDataType parses the names returned by DataType.String.
// Matching is case-insensitive and accepts underscores for dashes.
func ParseDataType(s string) (DataType, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for t, name := range dataTypeNames {
		if name == norm {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

// MatchLimit governs whether the store may return more than one match.
type MatchLimit int

const (
	MatchOne MatchLimit = iota + 1
	MatchAll
)

func (l MatchLimit) String() string {
	switch l {
	case MatchOne:
		return "one"
	case MatchAll:
		return "all"
	default:
		return fmt.Sprintf("MatchLimit(%d)", int(l))
	}
}

// ParseMatchLimit parses "one" or "all".
func ParseMatchLimit(s string) (MatchLimit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one":
		return MatchOne, nil
	case "all":
		return MatchAll, nil
	}
	return 0, fmt.Errorf("unknown match limit %q (want one or all)", s)
}

// Key names a criterion slot in a request.
type Key int

const (
	KeyClass Key = iota + 1
	KeyAccount
	KeyService
	KeyValueData
	KeyMatchLimit
	KeyReturnAttributes
	KeyReturnData
)

// Keys returns every criterion key in declaration order.
func Keys() []Key {
	return []Key{KeyClass, KeyAccount, KeyService, KeyValueData, KeyMatchLimit, KeyReturnAttributes, KeyReturnData}
}

func (k Key) String() string {
	switch k {
	case KeyClass:
		return "class"
	case KeyAccount:
		return "account"
	case KeyService:
		return "service"
	case KeyValueData:
		return "value-data"
	case KeyMatchLimit:
		return "match-limit"
	case KeyReturnAttributes:
		return "return-attributes"
	case KeyReturnData:
		return "return-data"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// ParseKey parses the names returned by Key.String. Underscores are
// accepted for dashes.
func ParseKey(s string) (Key, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for _, k := range Keys() {
		if k.String() == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown criterion key %q", s)
}

// Status is the raw status code returned by a store operation.
type Status int32

// Status codes as reported by the Apple Security framework. Other stores
// are expected to translate their errors into these.
const (
	StatusSuccess               Status = 0
	StatusUnimplemented         Status = -4
	StatusParam                 Status = -50
	StatusUserCanceled          Status = -128
	StatusAuthFailed            Status = -25293
	StatusDuplicateItem         Status = -25299
	StatusItemNotFound          Status = -25300
	StatusInteractionNotAllowed Status = -25308
)

var statusNames = map[Status]string{
	StatusSuccess:               "success",
	StatusUnimplemented:         "unimplemented",
	StatusParam:                 "param",
	StatusUserCanceled:          "user-canceled",
	StatusAuthFailed:            "auth-failed",
	StatusDuplicateItem:         "duplicate-item",
	StatusItemNotFound:          "item-not-found",
	StatusInteractionNotAllowed: "interaction-not-allowed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return fmt.Sprintf("%s (%d)", name, int32(s))
	}
	return fmt.Sprintf("status %d", int32(s))
}

// Name returns the short name of a well known status, or the decimal
// code for anything else.
func (s Status) Name() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("%d", int32(s))
}
