package service

import "errors"

var ErrMissingSessionID = errors.New("missing session id")
