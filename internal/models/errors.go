package models

import "errors"

var ErrNotFound = errors.New("memo not found")

var ErrEmptyUpdate = errors.New("no fields to update")

var ErrEmptyQuery = errors.New("search query must not be empty")
