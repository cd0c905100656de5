package personnel

import "errors"

var (
	ErrPersonNotFound = errors.New("person not found")
	ErrPersonInactive = errors.New("person is inactive")
)
