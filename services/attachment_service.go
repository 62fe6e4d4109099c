package services

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/kurin/blazer/b2"

	"casefilehub/acl"
	"casefilehub/models"
)

// AttachmentService stores raw casefile attachments in Backblaze B2 and
// records their metadata in the casefile's processed_files list through the
// normal transactional update path.
type AttachmentService struct {
	client     *b2.Client
	bucket     *b2.Bucket
	bucketName string
	casefiles  *CasefileService
	users      *UserService
}

func NewAttachmentService(keyID, applicationKey, bucketName string, casefiles *CasefileService, users *UserService) (*AttachmentService, error) {
	ctx := context.Background()

	client, err := b2.NewClient(ctx, keyID, applicationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create B2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", bucketName, err)
	}

	return &AttachmentService{
		client:     client,
		bucket:     bucket,
		bucketName: bucketName,
		casefiles:  casefiles,
		users:      users,
	}, nil
}

// Upload streams the file into B2 under the casefile's prefix and merges the
// attachment metadata into processed_files. The pre-check here avoids
// uploading a blob the user cannot attach; the Update call re-validates
// inside its transaction anyway.
func (s *AttachmentService) Upload(ctx context.Context, casefileID, userID, filename string, file multipart.File) (*models.ProcessedFile, error) {
	user, err := s.users.GetUserByUsername(ctx, userID)
	if err != nil {
		return nil, err
	}
	cf, err := s.casefiles.Load(ctx, casefileID)
	if err != nil {
		return nil, err
	}
	if !acl.Authorize(user.Role, cf.RoleOf(userID), acl.RoleWriter) {
		return nil, permissionDenied("user %q does not have write access to casefile %q", userID, casefileID)
	}

	objectName := fmt.Sprintf("casefiles/%s/%s", casefileID, filename)
	obj := s.bucket.Object(objectName)
	writer := obj.NewWriter(ctx)

	hasher := sha1.New()
	size, err := io.Copy(io.MultiWriter(writer, hasher), file)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to upload attachment to B2: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close B2 writer: %w", err)
	}

	attachment := models.ProcessedFile{
		ID:         newAttachmentID(),
		Name:       filename,
		ObjectName: objectName,
		Size:       size,
		SHA1:       hex.EncodeToString(hasher.Sum(nil)),
		UploadedBy: userID,
		UploadedAt: time.Now().UTC(),
	}

	if _, err := s.casefiles.Update(ctx, casefileID, map[string]any{
		"processed_files": []models.ProcessedFile{attachment},
	}, userID); err != nil {
		return nil, err
	}

	return &attachment, nil
}

// DownloadURL returns a signed URL for an attachment. Reader access on the
// casefile is enough.
func (s *AttachmentService) DownloadURL(ctx context.Context, casefileID, attachmentID, userID string, validFor time.Duration) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, userID)
	if err != nil {
		return "", err
	}
	cf, err := s.casefiles.Load(ctx, casefileID)
	if err != nil {
		return "", err
	}
	if !acl.Authorize(user.Role, cf.RoleOf(userID), acl.RoleReader) {
		return "", permissionDenied("user %q does not have read access to casefile %q", userID, casefileID)
	}

	var attachment *models.ProcessedFile
	for i := range cf.ProcessedFiles {
		if cf.ProcessedFiles[i].ID == attachmentID {
			attachment = &cf.ProcessedFiles[i]
			break
		}
	}
	if attachment == nil || attachment.ObjectName == "" {
		return "", notFound("attachment %q not found in casefile %q", attachmentID, casefileID)
	}

	obj := s.bucket.Object(attachment.ObjectName)
	url, err := obj.AuthURL(ctx, validFor, "GET")
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return url.String(), nil
}

func newAttachmentID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return "att-" + hex.EncodeToString(b)
}
