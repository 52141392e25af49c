package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

func publicBaseURL() string {
	if url := os.Getenv("R2_PUBLIC_URL"); url != "" {
		return url
	}
	return "https://cdn.boxhub.app"
}

type UploadConfig struct {
	Body        *bytes.Buffer
	ContentType string
	Username    string
	// Kind partitions objects per user, e.g. "avatar" or "progress".
	Kind     string
	Filename string
}

type UploadResult struct {
	URL      string
	ObjectID string
}

func UploadObject(cfg UploadConfig) (UploadResult, error) {
	safeUsername := slug.Make(cfg.Username)
	safeKind := slug.Make(cfg.Kind)

	ext := filepath.Ext(cfg.Filename)
	uniqueID := fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.New().String())
	objectKey := filepath.Join("users", safeUsername, safeKind, uniqueID+ext)

	client, err := getS3Client()
	if err != nil {
		return UploadResult{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(cfg.Body.Bytes()),
		ContentType: aws.String(cfg.ContentType),
	}

	_, err = client.PutObject(context.TODO(), input)
	if err != nil {
		return UploadResult{}, fmt.Errorf("could not upload file to R2: %v", err)
	}

	return UploadResult{
		URL:      fmt.Sprintf("%s/%s", publicBaseURL(), objectKey),
		ObjectID: uniqueID,
	}, nil
}

func DeleteObject(fullURL string) error {
	objectKey := getObjectKeyFromURL(fullURL)

	client, err := getS3Client()
	if err != nil {
		return err
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:    aws.String(objectKey),
	}

	_, err = client.DeleteObject(context.TODO(), input)
	if err != nil {
		return fmt.Errorf("could not delete file from R2: %v", err)
	}

	return nil
}

func getObjectKeyFromURL(url string) string {
	return strings.TrimPrefix(strings.TrimPrefix(url, publicBaseURL()), "/")
}
