package service

import (
	"encoding/base64"
	"net/http"

	"github.com/google/uuid"
)

// FormState is the admin form's position in its edit-mode state machine.
type FormState int

const (
	// FormClosed: no form shown, no draft held.
	FormClosed FormState = iota
	// FormCreating: empty draft, no editing target.
	FormCreating
	// FormEditing: draft seeded from an existing product.
	FormEditing
)

func (s FormState) String() string {
	switch s {
	case FormCreating:
		return "creating"
	case FormEditing:
		return "editing"
	default:
		return "closed"
	}
}

// PendingImage is an image chosen for the draft but not yet uploaded.
type PendingImage struct {
	Filename string
	Data     []byte
}

// Draft is the transient form state for a create or edit in progress. At most
// one draft exists at a time; it is discarded on successful save, explicit
// cancel, or when a new create/edit replaces it.
type Draft struct {
	Name     string
	Price    string
	Category string

	// EditingID is set when the draft edits an existing product.
	EditingID *uuid.UUID

	// PendingImage holds a newly selected file, uploaded only at save time.
	PendingImage *PendingImage

	// ImagePreviewURL shows what the saved product would display: the
	// existing image when editing, or a data URI of the pending selection.
	ImagePreviewURL string
}

// selectImage attaches a new file and regenerates the local preview from its
// contents, independent of any upload.
func (d *Draft) selectImage(filename string, data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)
	d.PendingImage = &PendingImage{Filename: filename, Data: buf}
	d.ImagePreviewURL = "data:" + http.DetectContentType(buf) + ";base64," + base64.StdEncoding.EncodeToString(buf)
}
