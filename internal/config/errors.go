package config

import "github.com/ayoisaiah/zenbreath/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errUnknownPattern = &apperr.Error{
		Message: "unknown default pattern: %s",
	}

	errInvalidPaymentMode = &apperr.Error{
		Message: "payment mode must be %q or %q, got %q",
	}

	errMissingEndpoint = &apperr.Error{
		Message: "payment endpoint is required in %s mode",
	}

	errInvalidEndpoint = &apperr.Error{
		Message: "payment endpoint must be an http(s) URL, got %q",
	}

	errInvalidPollInterval = &apperr.Error{
		Message: "poll interval must be between %v and %v",
	}

	errInvalidLogLevel = &apperr.Error{
		Message: "log level must be one of debug, info, warn or error, got %q",
	}
)
