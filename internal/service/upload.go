package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
)

// validate checks service input structs against their validate tags
var validate = validator.New()

// maxUploadSize bounds every uploaded document and image
const maxUploadSize = 2 << 20 // 2MB

var documentContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Upload carries one file received at the boundary, ready for policy checks
// and blob storage.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func checkUploadPolicy(u *Upload, allowed map[string]bool) error {
	if u == nil || len(u.Data) == 0 {
		return apperr.Validation("file is required")
	}
	if len(u.Data) > maxUploadSize {
		return apperr.Validation("file %q exceeds the 2MB size limit", u.Filename)
	}
	if !allowed[u.ContentType] {
		return apperr.Validation("file %q has unsupported type %s", u.Filename, u.ContentType)
	}
	return nil
}

func validateInput(in interface{}) error {
	if err := validate.Struct(in); err != nil {
		return apperr.Validation("invalid input: %v", err)
	}
	return nil
}
