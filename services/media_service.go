package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	fig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/greenloop/config"
	apiError "github.com/techagentng/greenloop/errors"
)

const (
	MaxFileSize    = 5 * 1024 * 1024 // 5 MB
	thumbnailWidth = 320
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// MediaService stores report and verification photos in S3 and returns
// stable URLs. The rest of the system only ever stores and forwards
// those URLs.
type MediaService interface {
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (imageURL string, thumbnailURL string, err error)
}

type mediaService struct {
	Config *config.Config
	client *s3.Client
}

func NewMediaService(conf *config.Config) (MediaService, error) {
	cfg, err := fig.LoadDefaultConfig(context.Background(),
		fig.WithRegion(conf.AwsRegion),
		fig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			conf.AwsAccessKeyID,
			conf.AwsSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load AWS SDK config")
	}
	return &mediaService{
		Config: conf,
		client: s3.NewFromConfig(cfg),
	}, nil
}

func (m *mediaService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, string, error) {
	if err := validateImageFile(fileHeader); err != nil {
		return "", "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", errors.Wrap(err, "could not open uploaded file")
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", "", apiError.ValidationError("uploaded file is not a valid image")
	}

	key := fmt.Sprintf("media/%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(fileHeader.Filename)))

	var full bytes.Buffer
	if err := jpeg.Encode(&full, img, &jpeg.Options{Quality: 90}); err != nil {
		return "", "", errors.Wrap(err, "could not encode image")
	}
	imageURL, err := m.putObject(ctx, key, full.Bytes())
	if err != nil {
		return "", "", err
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	var thumbBuf bytes.Buffer
	if err := jpeg.Encode(&thumbBuf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return "", "", errors.Wrap(err, "could not encode thumbnail")
	}
	thumbnailURL, err := m.putObject(ctx, "thumbnails/"+filepath.Base(key), thumbBuf.Bytes())
	if err != nil {
		return "", "", err
	}

	return imageURL, thumbnailURL, nil
}

func (m *mediaService) putObject(ctx context.Context, key string, data []byte) (string, error) {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.Config.S3Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
		ACL:    types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload file to S3")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Config.S3Bucket, m.Config.AwsRegion, key), nil
}

func validateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxFileSize {
		return apiError.ValidationError(fmt.Sprintf("file size exceeds limit of %d bytes", MaxFileSize))
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if !allowedMimeTypes[mimeType] {
		return apiError.ValidationError(fmt.Sprintf("invalid file type: %s", mimeType))
	}
	return nil
}
