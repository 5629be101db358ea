package domain

import "errors"

var (
	ErrAuth       = errors.New("unauthorized")
	ErrValidation = errors.New("invalid payload")
	ErrDownload   = errors.New("attachment download failed")
	ErrAnalysis   = errors.New("document analysis failed")
	ErrStorage    = errors.New("result storage failed")

	// ErrTransient marks analyzer failures worth another attempt.
	ErrTransient = errors.New("transient failure")

	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// Kind is the failure name exposed to webhook callers.
type Kind string

const (
	KindNone       Kind = ""
	KindAuth       Kind = "auth_error"
	KindValidation Kind = "validation_error"
	KindDownload   Kind = "download_error"
	KindAnalysis   Kind = "analysis_error"
	KindStorage    Kind = "storage_error"
	KindInternal   Kind = "internal_error"
)

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrAuth):
		return KindAuth
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDownload):
		return KindDownload
	case errors.Is(err, ErrAnalysis):
		return KindAnalysis
	case errors.Is(err, ErrStorage):
		return KindStorage
	default:
		return KindInternal
	}
}
