package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"

	"github.com/alceccentric/arena-pricing-cron/internal/config"
	"github.com/alceccentric/arena-pricing-cron/internal/dao"
	"github.com/alceccentric/arena-pricing-cron/internal/utils"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

type archiveClient interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Mirrors the run archive bucket into a local directory.
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	out := flag.String("out", "cmd/r2data", "Local directory to download into")
	prefix := flag.String("prefix", "", "Only download keys under this prefix, defaults to R2_PREFIX")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Invalid configuration: ", err)
	}
	if *prefix == "" {
		*prefix = cfg.R2Prefix
	}

	client, err := dao.NewS3Client(cfg.R2)
	if err != nil {
		logrus.Fatal(err)
	}

	downloaded, failed, err := downloadAll(context.Background(), client, cfg.R2Bucket, *prefix, *out)
	if err != nil {
		logrus.Fatal("List objects failed: ", err)
	}
	logrus.Infof("Done. %d objects downloaded, %d failed", downloaded, failed)
}

func downloadAll(ctx context.Context, client archiveClient, bucket, prefix, localBase string) (int, int, error) {
	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: &bucket,
		Prefix: &prefix,
	})

	downloaded, failed := 0, 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return downloaded, failed, err
		}
		for _, obj := range page.Contents {
			key := *obj.Key
			logrus.Info("Downloading: ", key)
			if err := downloadObject(ctx, client, bucket, key, filepath.Join(localBase, filepath.FromSlash(key))); err != nil {
				logrus.Warnf("Failed to download %s: %v", key, err)
				failed++
				continue
			}
			downloaded++
		}
	}
	return downloaded, failed, nil
}

func downloadObject(ctx context.Context, client archiveClient, bucket, key, localPath string) error {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return err
	}
	defer out.Body.Close()

	if err := utils.CreateDirectoryIfNotExists(filepath.Dir(localPath)); err != nil {
		return err
	}
	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, out.Body)
	return err
}
