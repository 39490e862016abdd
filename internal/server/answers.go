package server

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/muhammadolammi/careeradvisor/internal/conversation"
	"github.com/muhammadolammi/careeradvisor/internal/document"
	"github.com/muhammadolammi/careeradvisor/internal/domain"
	"github.com/muhammadolammi/careeradvisor/internal/shell"
	"github.com/muhammadolammi/careeradvisor/internal/storage"
)

const maxFileSize = 10 << 20

type answerRequest struct {
	Option string `json:"option" form:"option"`
	Text   string `json:"text" form:"text"`
}

// answer accepts JSON or a multipart form whose files are images or
// documents. Documents are flattened into the answer text. Images are stored
// only once the answer passes validation, and removed again if the session
// rejects it.
func (h *Handler) answer(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	a := conversation.Answer{Option: req.Option, Text: req.Text}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest(c, "invalid multipart form")
		}
		images, docs, err := readFiles(form.File["files"])
		if err != nil {
			return badRequest(c, err.Error())
		}
		a.Images = images
		a.Text = document.AppendAttachments(strings.TrimSpace(a.Text), docs)
	}

	if err := s.CheckAnswer(a); err != nil {
		return h.fail(c, err)
	}
	ctx := c.Request().Context()
	keys := h.storeImages(ctx, s.ID().String(), a.Images)

	return h.withSession(c, func(s *shell.Shell) error {
		err := s.Answer(ctx, a)
		if err != nil && (domain.IsValidation(err) || domain.IsConflict(err)) {
			h.discardImages(ctx, keys)
		}
		return err
	})
}

// storeImages uploads images and sets their object keys. Upload failures are
// logged and leave the image without a key.
func (h *Handler) storeImages(ctx context.Context, sessionID string, images []domain.Image) []string {
	if h.attachments == nil {
		return nil
	}
	var keys []string
	for i := range images {
		img := &images[i]
		key := storage.ObjectKey(sessionID, img.Name)
		if err := h.attachments.Put(ctx, key, img.MIMEType, img.Data); err != nil {
			h.log.Warn("failed to store attachment", "file", img.Name, "error", err)
			continue
		}
		img.ObjectKey = key
		keys = append(keys, key)
	}
	return keys
}

func (h *Handler) discardImages(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := h.attachments.Delete(ctx, key); err != nil {
			h.log.Warn("failed to remove rejected attachment", "key", key, "error", err)
		}
	}
}

func readFiles(files []*multipart.FileHeader) ([]domain.Image, []document.Attachment, error) {
	var images []domain.Image
	var docs []document.Attachment
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return nil, nil, err
		}
		mime := document.DetectMIME(fh.Filename, data)

		switch {
		case document.IsImage(mime):
			images = append(images, domain.Image{Name: fh.Filename, MIMEType: mime, Data: data})

		case document.IsDocument(mime):
			text, err := document.ExtractText(mime, data)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", fh.Filename, err)
			}
			docs = append(docs, document.Attachment{Name: fh.Filename, Text: text})

		default:
			return nil, nil, fmt.Errorf("%s: unsupported file type %s", fh.Filename, mime)
		}
	}
	return images, docs, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := document.ReadAll(f, maxFileSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fh.Filename, err)
	}
	return data, nil
}
