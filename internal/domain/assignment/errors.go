package assignment

import "errors"

var ErrAssignmentNotFound = errors.New("assignment not found")
