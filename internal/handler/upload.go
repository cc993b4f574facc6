package handler

import (
	"io"
	"mime/multipart"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/service"
)

// readUpload drains one multipart file into a service upload. Size and type
// policy is the owning component's concern, not the transport's.
func readUpload(fh *multipart.FileHeader) (*service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
