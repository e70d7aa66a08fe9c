package domain

import "errors"

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateShowID = errors.New("a title with this show_id already exists")
	ErrEditConflict    = errors.New("edit conflict")
)
