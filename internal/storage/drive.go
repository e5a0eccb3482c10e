package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveStore keeps product images in a Google Drive folder accessed with a
// service account. Public URLs use the uc?id= form, which resolves without
// authentication when the folder is shared publicly.
type DriveStore struct {
	client   *drive.Service
	folderID string

	mu   sync.Mutex
	urls map[string]string // object name -> public URL
}

// NewDriveStore creates a Drive-backed store from a service account
// credentials file and a target folder ID.
func NewDriveStore(ctx context.Context, credentialsPath, folderID string) (*DriveStore, error) {
	client, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveStore{
		client:   client,
		folderID: folderID,
		urls:     make(map[string]string),
	}, nil
}

// Put uploads the object into the configured folder. Drive allows duplicate
// filenames, so the write-once contract is checked explicitly first.
func (s *DriveStore) Put(ctx context.Context, name string, r io.Reader) error {
	exists, err := s.exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return ErrObjectExists
	}

	file := &drive.File{
		Name:    name,
		Parents: []string{s.folderID},
	}

	created, err := s.client.Files.Create(file).
		Media(r).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	s.mu.Lock()
	s.urls[name] = fmt.Sprintf("https://drive.google.com/uc?id=%s", created.Id)
	s.mu.Unlock()

	return nil
}

// PublicURL returns the uc?id= URL recorded at upload time. Objects uploaded
// by earlier processes are resolved lazily by name lookup.
func (s *DriveStore) PublicURL(name string) string {
	s.mu.Lock()
	url, ok := s.urls[name]
	s.mu.Unlock()
	if ok {
		return url
	}

	fileID, err := s.findID(context.Background(), name)
	if err != nil || fileID == "" {
		return ""
	}

	url = fmt.Sprintf("https://drive.google.com/uc?id=%s", fileID)
	s.mu.Lock()
	s.urls[name] = url
	s.mu.Unlock()
	return url
}

func (s *DriveStore) exists(ctx context.Context, name string) (bool, error) {
	fileID, err := s.findID(ctx, name)
	if err != nil {
		return false, err
	}
	return fileID != "", nil
}

func (s *DriveStore) findID(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("'%s' in parents and name = '%s' and trashed=false", s.folderID, name)

	r, err := s.client.Files.List().
		Q(query).
		Fields("files(id)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to list objects: %w", err)
	}

	if len(r.Files) == 0 {
		return "", nil
	}
	return r.Files[0].Id, nil
}
