package censor

import "errors"

var ErrNoTerms = errors.New("terms file contains no terms")
