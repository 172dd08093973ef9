package dao

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/alceccentric/arena-pricing-cron/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

// R2Credentials locate and authenticate against an S3 compatible bucket (Cloudflare R2).
type R2Credentials struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// R2DAO archives reconciliation runs in an R2 bucket.
type R2DAO struct {
	s3             S3Uploader
	bucketName     string
	summaryPrefix  string
	metadataPrefix string
}

func NewR2DAO(creds R2Credentials, bucketName, summaryPrefix, metadataPrefix string) (*R2DAO, error) {
	client, err := NewS3Client(creds)
	if err != nil {
		return nil, err
	}
	return NewR2DAOWithClient(bucketName, summaryPrefix, metadataPrefix, client), nil
}

func NewR2DAOWithClient(bucketName, summaryPrefix, metadataPrefix string, s3Client S3Uploader) *R2DAO {
	return &R2DAO{
		s3:             s3Client,
		bucketName:     bucketName,
		summaryPrefix:  summaryPrefix,
		metadataPrefix: metadataPrefix,
	}
}

func (u *R2DAO) GetLatestRunInfo(teamID string) (models.RunInfo, error) {
	key := path.Join(u.metadataPrefix, fmt.Sprintf(LATEST_RUN_INFO_FILENAME_FORMAT, teamID))
	resp, err := u.s3.GetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(u.bucketName),
		Key:    aws.String(key),
	})

	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return models.RunInfo{}, nil
		}
		return models.RunInfo{}, err
	}
	defer resp.Body.Close()

	var latestInfo models.RunInfo
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&latestInfo); err != nil {
		return models.RunInfo{}, err
	}

	return latestInfo, nil
}

func (u *R2DAO) SaveLatestRunInfo(info models.RunInfo) error {
	key := path.Join(u.metadataPrefix, fmt.Sprintf(LATEST_RUN_INFO_FILENAME_FORMAT, info.TeamID))
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run info: %w", err)
	}

	logrus.Infof("Saving latest run info of team %s to bucket: %s with key: %s", info.TeamID, u.bucketName, key)
	_, err = u.s3.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(u.bucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	return err
}

func (u *R2DAO) SavePeriodSummaries(runID, teamID string, summaries []models.PeriodSummary) error {
	key := path.Join(u.summaryPrefix, teamID, fmt.Sprintf(SUMMARY_FILENAME_FORMAT, runID))
	logrus.Infof("Saving %d period summaries of team %s to bucket: %s with key: %s",
		len(summaries), teamID, u.bucketName, key)
	return writeCSVToR2(u.s3, u.bucketName, key, toSummaryRows(runID, teamID, summaries))
}

// NewS3Client builds a client for the R2 endpoint in creds.
func NewS3Client(creds R2Credentials) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(creds.Endpoint)
	}), nil
}

func writeCSVToR2[T any](
	client S3Uploader,
	bucket, key string,
	records []T,
) error {
	csvBytes, err := gocsv.MarshalBytes(records)
	if err != nil {
		return fmt.Errorf("failed to marshal csv: %w", err)
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(csvBytes),
	})
	return err
}
