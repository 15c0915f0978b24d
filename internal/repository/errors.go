// Package repository implements the MySQL side of both pipelines: the
// transactional full replace of the attendees table and the aggregate
// queries behind the reports.
package repository

import "errors"

// ErrNilClassifier is returned by ReplaceAll when no classifier is given;
// the university column would otherwise be left NULL.
var ErrNilClassifier = errors.New("nil university classifier")
