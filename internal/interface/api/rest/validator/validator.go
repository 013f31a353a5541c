package validator

import (
	"errors"
	"net/mail"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"sheet-insights-api/internal/interface/api/rest/dto/auth"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt safe
	maxBulkIDs     = 100
)

var (
	ErrInvalidPage     = errors.New("invalid page")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileIDsRequired = errors.New("file ids are required")
	ErrTooManyFileIDs  = errors.New("at most 100 file IDs per request")
	uploadExtensions   = map[string]struct{}{".xlsx": {}, ".xlsm": {}, ".xls": {}, ".csv": {}}
)

func ValidatePage(page string) (int, error) {
	if page == "" {
		return 1, nil
	}
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		return 0, ErrInvalidPage
	}

	return p, nil
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

// ValidateUploadName checks the client file name against the readable workbook and CSV extensions.
func ValidateUploadName(name string) error {
	if _, ok := uploadExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
		return ErrUnsupportedFile
	}
	return nil
}

func ValidateFileIDs(ids []string) error {
	switch {
	case len(ids) == 0:
		return ErrFileIDsRequired
	case len(ids) > maxBulkIDs:
		return ErrTooManyFileIDs
	}
	return nil
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	email := strings.ToLower(strings.TrimSpace(r.Email))

	if email == "" {
		errs["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "invalid email format"
	}

	// password is not trimmed
	if strings.TrimSpace(r.Password) == "" {
		errs["password"] = "password is required"
	} else if l := utf8.RuneCountInString(r.Password); l < minPasswordLen || l > maxPasswordLen {
		errs["password"] = "password length must be 8-72 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
