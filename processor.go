package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
)

type UploadProcessor interface {
	ProcessUpload(s3Object S3ObjectInfo) error
}

type S3Api interface {
	HeadObject(input *s3.HeadObjectInput) (*s3.HeadObjectOutput, error)
	DeleteObject(input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error)
	PutObjectTagging(input *s3.PutObjectTaggingInput) (*s3.PutObjectTaggingOutput, error)
	ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error)
}

// Fixed lifecycle tag values applied to every retained object
const (
	tagOwner   = "unknown"
	tagTTLDays = "7"
)

const bytesPerGB = 1 << 30

type S3UploadProcessor struct {
	s3Client S3Api
	config   Config
	now      func() time.Time
	out      io.Writer
}

func NewUploadProcessor(s3Client S3Api, config Config) *S3UploadProcessor {
	return &S3UploadProcessor{
		s3Client: s3Client,
		config:   config,
		now:      time.Now,
		out:      os.Stdout,
	}
}

// ProcessUpload fetches the object's size and performs exactly one terminal
// action: oversized objects are deleted, the rest get their tag set replaced
// with lifecycle metadata. Either way one action record is written to out.
func (up *S3UploadProcessor) ProcessUpload(s3Object S3ObjectInfo) error {

	log.Printf("processing upload s3://%s/%s", s3Object.Bucket, s3Object.Key)

	head, err := up.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s3Object.Bucket),
		Key:    aws.String(s3Object.Key),
	})
	if err != nil {
		return fmt.Errorf("failed to head object: %v", err)
	}
	sizeBytes := aws.Int64Value(head.ContentLength)
	monthlyCost := float64(sizeBytes) / bytesPerGB * up.config.PricePerGBMonth

	if sizeBytes > up.config.MaxSizeBytes {
		_, err := up.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s3Object.Bucket),
			Key:    aws.String(s3Object.Key),
		})
		if err != nil {
			return fmt.Errorf("failed to delete object: %v", err)
		}

		return up.emit(ActionRecord{
			Action:                  "deleted",
			Bucket:                  s3Object.Bucket,
			Key:                     s3Object.Key,
			SizeBytes:               sizeBytes,
			Reason:                  "exceeds 10 MB limit",
			EstimatedMonthlyCostUSD: roundCost(monthlyCost),
		})
	}

	uploadedAt := up.now().UTC().Format(time.RFC3339)
	sizeValue := strconv.FormatInt(sizeBytes, 10)

	// PutObjectTagging replaces the entire tag set, it never merges
	_, err = up.s3Client.PutObjectTagging(&s3.PutObjectTaggingInput{
		Bucket: aws.String(s3Object.Bucket),
		Key:    aws.String(s3Object.Key),
		Tagging: &s3.Tagging{
			TagSet: []*s3.Tag{
				{Key: aws.String("owner"), Value: aws.String(tagOwner)},
				{Key: aws.String("ttl_days"), Value: aws.String(tagTTLDays)},
				{Key: aws.String("uploaded_at"), Value: aws.String(uploadedAt)},
				{Key: aws.String("size_bytes"), Value: aws.String(sizeValue)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to tag object: %v", err)
	}

	return up.emit(ActionRecord{
		Action:    "tagged",
		Bucket:    s3Object.Bucket,
		Key:       s3Object.Key,
		SizeBytes: sizeBytes,
		Tags: map[string]string{
			"owner":       tagOwner,
			"ttl_days":    tagTTLDays,
			"uploaded_at": uploadedAt,
			"size_bytes":  sizeValue,
		},
		EstimatedMonthlyCostUSD: roundCost(monthlyCost),
	})
}

func (up *S3UploadProcessor) emit(record ActionRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal action record: %v", err)
	}
	if _, err := fmt.Fprintln(up.out, string(data)); err != nil {
		return fmt.Errorf("failed to write action record: %v", err)
	}

	return nil
}

// roundCost rounds to 6 decimal places for reporting; full precision is kept
// up to the log boundary
func roundCost(cost float64) float64 {
	return math.Round(cost*1e6) / 1e6
}
