package report

import "errors"

var (
	ErrNoEmployees = errors.New("no active employees to report on")
)
