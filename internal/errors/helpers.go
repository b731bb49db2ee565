package errors

// New creates an AppError of the given category.
func New(category ErrorCategory, code, message string, err error) *AppError {
	return &AppError{
		Code:     code,
		Category: category,
		Message:  message,
		Err:      err,
	}
}

// SystemError reports a local directory or backup failure.
func SystemError(code, message string, err error) *AppError {
	return New(ErrCategorySystem, code, message, err)
}

// NetworkError reports a transport failure: DNS, refused connection, timeout or a broken body.
func NetworkError(code, message string, err error) *AppError {
	return New(ErrCategoryNetwork, code, message, err)
}

// HTTPError reports a non-2xx response. message is the status reason phrase.
func HTTPError(code, message string, status int) *AppError {
	return New(ErrCategoryHTTP, code, message, nil).WithField("status", status)
}

// ConfigError reports an invalid manifest or command-line input.
func ConfigError(code, message string, err error) *AppError {
	return New(ErrCategoryConfig, code, message, err)
}

// UnexpectedError reports any other failure while writing a downloaded file.
func UnexpectedError(code, message string, err error) *AppError {
	return New(ErrCategoryUnexpected, code, message, err)
}
