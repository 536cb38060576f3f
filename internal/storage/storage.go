package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Upload folders.
const (
	EventsFolder  = "events"
	GalleryFolder = "gallery"
)

var ErrForeignURL = errors.New("url does not belong to this storage")

type Storage interface {
	// SaveFile stores the upload under folder and returns its public URL.
	SaveFile(fileHeader *multipart.FileHeader, folder string) (string, error)
	// DeleteFile removes an object previously returned by SaveFile.
	DeleteFile(url string) error
}

type LocalStorage struct {
	uploadDir string
	urlPrefix string
}

type SpacesStorage struct {
	client *s3.S3
	bucket string
	cdnURL string
}

// NewLocalStorage stores files under uploadDir, served by the router at /uploads.
func NewLocalStorage(uploadDir string) *LocalStorage {
	return &LocalStorage{uploadDir: uploadDir, urlPrefix: "/uploads"}
}

func NewSpacesStorage(endpoint, region, bucket, cdnURL, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client: s3.New(sess),
		bucket: bucket,
		cdnURL: strings.TrimSuffix(cdnURL, "/"),
	}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9_-]`)

// objectName builds "<folder>/<uuid>-<cleaned base>.<ext>" so two uploads of
// the same file never collide.
func objectName(folder, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	base = unsafeChars.ReplaceAllString(strings.ReplaceAll(base, " ", "_"), "")
	if len(base) > 40 {
		base = base[:40]
	}
	if base == "" {
		base = "file"
	}
	return path.Join(folder, fmt.Sprintf("%s-%s%s", uuid.NewString(), base, ext))
}

func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, folder string) (string, error) {
	name := objectName(folder, fileHeader.Filename)
	log.Debug().Str("original", fileHeader.Filename).Str("name", name).Msg("saving upload locally")

	dest := filepath.Join(ls.uploadDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return ls.urlPrefix + "/" + name, nil
}

func (ls *LocalStorage) DeleteFile(url string) error {
	name, ok := strings.CutPrefix(url, ls.urlPrefix+"/")
	if !ok || name == "" || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %s", ErrForeignURL, url)
	}
	err := os.Remove(filepath.Join(ls.uploadDir, filepath.FromSlash(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (ss *SpacesStorage) SaveFile(fileHeader *multipart.FileHeader, folder string) (string, error) {
	key := "uploads/" + objectName(folder, fileHeader.Filename)
	log.Debug().Str("original", fileHeader.Filename).Str("key", key).Msg("uploading to Spaces")

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	_, err = ss.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(contentType(key)),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload file to Spaces")
		return "", fmt.Errorf("failed to upload to Spaces: %w", err)
	}

	return ss.cdnURL + "/" + key, nil
}

func (ss *SpacesStorage) DeleteFile(url string) error {
	key, ok := strings.CutPrefix(url, ss.cdnURL+"/")
	if !ok || key == "" {
		return fmt.Errorf("%w: %s", ErrForeignURL, url)
	}
	_, err := ss.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from Spaces: %w", err)
	}
	return nil
}

func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
