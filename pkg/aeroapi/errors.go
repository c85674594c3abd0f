package aeroapi

import (
	"errors"
	"fmt"
	"time"
)

// Kind groups SDK errors by the step that produced them.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindRequestBuild
	KindTransport
	KindDecode
	KindBinaryDecode
	KindDomainEmpty
	KindLoad
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindRequestBuild:
		return "request_build"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindBinaryDecode:
		return "binary_decode"
	case KindDomainEmpty:
		return "domain_empty"
	case KindLoad:
		return "load"
	default:
		return "unknown"
	}
}

// Category sentinels. Every concrete error below matches exactly one of them with errors.Is.
var (
	ErrConfiguration = errors.New("aeroapi: configuration error")
	ErrRequestBuild  = errors.New("aeroapi: request build error")
	ErrTransport     = errors.New("aeroapi: transport error")
	ErrDecode        = errors.New("aeroapi: decode error")
	ErrBinaryDecode  = errors.New("aeroapi: binary decode error")
	ErrDomainEmpty   = errors.New("aeroapi: empty result")
	ErrLoad          = errors.New("aeroapi: reference data load error")
)

var kindSentinels = map[Kind]error{
	KindConfiguration: ErrConfiguration,
	KindRequestBuild:  ErrRequestBuild,
	KindTransport:     ErrTransport,
	KindDecode:        ErrDecode,
	KindBinaryDecode:  ErrBinaryDecode,
	KindDomainEmpty:   ErrDomainEmpty,
	KindLoad:          ErrLoad,
}

type kinded interface {
	Kind() Kind
}

// KindOf reports the category of err, looking through wrapped errors.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

func isKind(k Kind, target error) bool {
	return kindSentinels[k] == target
}

type MissingCredentialError struct{}

func (e *MissingCredentialError) Error() string {
	return "aeroapi: api key is not configured"
}

func (e *MissingCredentialError) Kind() Kind           { return KindConfiguration }
func (e *MissingCredentialError) Is(target error) bool { return isKind(e.Kind(), target) }

type URLBuildError struct {
	Path string
	Err  error
}

func (e *URLBuildError) Error() string {
	return fmt.Sprintf("aeroapi: cannot build url for %q: %v", e.Path, e.Err)
}

func (e *URLBuildError) Unwrap() error        { return e.Err }
func (e *URLBuildError) Kind() Kind           { return KindRequestBuild }
func (e *URLBuildError) Is(target error) bool { return isKind(e.Kind(), target) }

// InvalidDimensionError is returned for map image sizes outside (0, 1500].
type InvalidDimensionError struct {
	Field string
	Value int
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("aeroapi: invalid %s %d: must be within (0, %d]", e.Field, e.Value, MaxMapDimension)
}

func (e *InvalidDimensionError) Kind() Kind           { return KindRequestBuild }
func (e *InvalidDimensionError) Is(target error) bool { return isKind(e.Kind(), target) }

type InvalidFilterError struct {
	Name   string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("aeroapi: invalid filter %s: %s", e.Name, e.Reason)
}

func (e *InvalidFilterError) Kind() Kind           { return KindRequestBuild }
func (e *InvalidFilterError) Is(target error) bool { return isKind(e.Kind(), target) }

// MalformedIdentifierError is returned when a FlightAware flight id carries no epoch segment.
type MalformedIdentifierError struct {
	ID string
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("aeroapi: malformed flight id %q", e.ID)
}

func (e *MalformedIdentifierError) Kind() Kind           { return KindRequestBuild }
func (e *MalformedIdentifierError) Is(target error) bool { return isKind(e.Kind(), target) }

// MissingIdentifierError is returned when a request needs at least one code and got none.
type MissingIdentifierError struct {
	Request string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("aeroapi: %s requires an identifier", e.Request)
}

func (e *MissingIdentifierError) Kind() Kind           { return KindRequestBuild }
func (e *MissingIdentifierError) Is(target error) bool { return isKind(e.Kind(), target) }

type StartAfterEndError struct {
	Start time.Time
	End   time.Time
}

func (e *StartAfterEndError) Error() string {
	return fmt.Sprintf("aeroapi: start %s is not before end %s", formatDate(e.Start), formatDate(e.End))
}

func (e *StartAfterEndError) Kind() Kind           { return KindRequestBuild }
func (e *StartAfterEndError) Is(target error) bool { return isKind(e.Kind(), target) }

type DateRangeOutOfWindowError struct {
	Start time.Time
	End   time.Time
}

func (e *DateRangeOutOfWindowError) Error() string {
	return fmt.Sprintf("aeroapi: range %s - %s outside the allowed window (%d days back, %d days ahead)",
		formatDate(e.Start), formatDate(e.End), lookBackDays, lookAheadDays)
}

func (e *DateRangeOutOfWindowError) Kind() Kind           { return KindRequestBuild }
func (e *DateRangeOutOfWindowError) Is(target error) bool { return isKind(e.Kind(), target) }

// HTTPStatusError carries any non-200 response status, including other 2xx codes.
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("aeroapi: request failed with status: %d", e.StatusCode)
}

func (e *HTTPStatusError) Kind() Kind           { return KindTransport }
func (e *HTTPStatusError) Is(target error) bool { return isKind(e.Kind(), target) }

type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("aeroapi: request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error        { return e.Err }
func (e *NetworkError) Kind() Kind           { return KindTransport }
func (e *NetworkError) Is(target error) bool { return isKind(e.Kind(), target) }

// DecodeError keeps the raw payload for diagnostics.
type DecodeError struct {
	Target  string
	Payload []byte
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("aeroapi: failed to decode %s: %v", e.Target, e.Err)
}

func (e *DecodeError) Unwrap() error        { return e.Err }
func (e *DecodeError) Kind() Kind           { return KindDecode }
func (e *DecodeError) Is(target error) bool { return isKind(e.Kind(), target) }

type BinaryDecodeError struct {
	Field string
	Err   error
}

func (e *BinaryDecodeError) Error() string {
	return fmt.Sprintf("aeroapi: failed to extract %q: %v", e.Field, e.Err)
}

func (e *BinaryDecodeError) Unwrap() error        { return e.Err }
func (e *BinaryDecodeError) Kind() Kind           { return KindBinaryDecode }
func (e *BinaryDecodeError) Is(target error) bool { return isKind(e.Kind(), target) }

// EmptyResultError is returned when a successful response carries nothing usable.
type EmptyResultError struct {
	Resource string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("aeroapi: %s is empty", e.Resource)
}

func (e *EmptyResultError) Kind() Kind           { return KindDomainEmpty }
func (e *EmptyResultError) Is(target error) bool { return isKind(e.Kind(), target) }

type ResourceNotFoundError struct {
	Name string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("aeroapi: reference dataset %s not found", e.Name)
}

func (e *ResourceNotFoundError) Kind() Kind           { return KindLoad }
func (e *ResourceNotFoundError) Is(target error) bool { return isKind(e.Kind(), target) }
