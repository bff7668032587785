package main

import (
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type Handler struct {
	up       UploadProcessor
	s3Client S3Api
}

type S3ObjectInfo struct {
	Bucket string
	Key    string
}

func NewHandler() (*Handler, error) {
	sess := session.Must(session.NewSession())
	config, err := LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	s3Client := s3.New(sess)
	return &Handler{up: NewUploadProcessor(s3Client, config), s3Client: s3Client}, nil
}

func (h *Handler) processS3Objects(s3Objects []S3ObjectInfo) error {
	// Objects are processed strictly in input order; the first failure aborts
	// the remaining ones and surfaces to the platform for its retry policy.
	for _, s3obj := range s3Objects {
		err := h.up.ProcessUpload(s3obj)
		if err != nil {
			return fmt.Errorf("error processing upload s3://%s/%s: %w", s3obj.Bucket, s3obj.Key, err)
		}
	}

	return nil
}

func (h *Handler) HandleLambdaEvent(event S3ObjectCreatedEvent) error {
	var s3Objects []S3ObjectInfo
	for _, record := range event.Records {
		// Keys arrive URL-encoded in event notifications
		key, err := DecodeObjectKey(record.S3.Object.Key)
		if err != nil {
			return err
		}
		s3Objects = append(s3Objects, S3ObjectInfo{
			Bucket: record.S3.Bucket.Name,
			Key:    key,
		})
	}
	return h.processS3Objects(s3Objects)
}

func (h *Handler) HandleS3URL(url string) error {
	bucket, prefix, err := ParseS3URL(url)
	if err != nil {
		return fmt.Errorf("failed to parse S3 URL: %v", err)
	}

	var s3Objects []S3ObjectInfo
	var continuationToken *string
	for {
		resp, err := h.s3Client.ListObjectsV2(&s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return fmt.Errorf("failed to list objects: %v", err)
		}

		// Listed keys are already literal, unlike event notification keys
		for _, item := range resp.Contents {
			s3Objects = append(s3Objects, S3ObjectInfo{
				Bucket: bucket,
				Key:    *item.Key,
			})
		}

		if resp.IsTruncated == nil || !*resp.IsTruncated {
			break
		}
		continuationToken = resp.NextContinuationToken
	}

	return h.processS3Objects(s3Objects)
}
