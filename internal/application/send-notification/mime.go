package sendnotification

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"now-hiring/internal/models"

	"github.com/emersion/go-message/mail"
)

// BuildMIME assembles msg as a multipart/mixed message: an HTML part followed
// by one part per attachment, named by its original filename.
func BuildMIME(from string, msg *models.NotificationMessage, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetSubject(msg.Subject)
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	to := make([]*mail.Address, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, &mail.Address{Address: addr})
	}
	h.SetAddressList("To", to)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generate message id: %w", err)
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create mail writer: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline part: %w", err)
	}
	var th mail.InlineHeader
	th.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	if err := writePart(func() (io.WriteCloser, error) { return tw.CreatePart(th) }, []byte(msg.HTML)); err != nil {
		return nil, fmt.Errorf("write html body: %w", err)
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close inline part: %w", err)
	}

	for _, att := range msg.Attachments {
		var ah mail.AttachmentHeader
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		ah.SetContentType(contentType, nil)
		ah.SetFilename(att.Filename)
		if err := writePart(func() (io.WriteCloser, error) { return mw.CreateAttachment(ah) }, att.Data); err != nil {
			return nil, fmt.Errorf("write attachment %s: %w", att.Filename, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close mail writer: %w", err)
	}
	return buf.Bytes(), nil
}

func writePart(create func() (io.WriteCloser, error), data []byte) error {
	w, err := create()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
