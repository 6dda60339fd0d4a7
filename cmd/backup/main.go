package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"time"

	"techreview/config"
	"techreview/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// backupPrefix trennt die Datenbank-Dumps von den Media-Objekten im selben
// Bucket. Die Rotation fasst ausschließlich Objekte unter diesem Prefix an.
const backupPrefix = "backups/"

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	logging.Info("Starting database backup", zap.String("db", cfg.DBName))

	dump, err := dumpDatabase(cfg)
	if err != nil {
		logging.Fatal("pg_dump failed", zap.Error(err))
	}

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}

	key := fmt.Sprintf("%stechreview-%s.sql.gz",
		backupPrefix, time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	if err := uploadDump(s3Client, cfg, key, dump); err != nil {
		logging.Fatal("Backup upload failed", zap.Error(err))
	}
	logging.Info("Backup uploaded",
		zap.String("bucket", cfg.MediaS3Bucket), zap.String("key", key))

	if err := rotateDumps(s3Client, cfg, logging); err != nil {
		logging.Fatal("Backup rotation failed", zap.Error(err))
	}

	logging.Info("Backup finished")
}

// dumpDatabase erstellt mit pg_dump einen gzip-komprimierten Dump der
// Review-Datenbank. Die Verbindungsdaten kommen aus derselben Konfiguration
// wie beim Service selbst.
func dumpDatabase(cfg *config.Config) ([]byte, error) {
	cmd := exec.Command("pg_dump",
		"-h", cfg.DBHost,
		"-p", strconv.Itoa(cfg.DBPort),
		"-U", cfg.DBUser,
		"-d", cfg.DBName,
		"-w", // Passwort kommt über PGPASSWORD
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+cfg.DBPassword)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := io.Copy(gz, stdout); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func uploadDump(client *s3.Client, cfg *config.Config, key string, data []byte) error {
	_, err := client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(cfg.MediaS3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/gzip"),
	})
	return err
}

// rotateDumps behält die neuesten BackupKeep Dumps unter backups/ und löscht
// den Rest. Media-Objekte außerhalb des Prefix bleiben unberührt.
func rotateDumps(client *s3.Client, cfg *config.Config, logging *zap.Logger) error {
	output, err := client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket: aws.String(cfg.MediaS3Bucket),
		Prefix: aws.String(backupPrefix),
	})
	if err != nil {
		return err
	}

	if len(output.Contents) <= cfg.BackupKeep {
		logging.Info("No backup rotation needed",
			zap.Int("dumps", len(output.Contents)), zap.Int("keep", cfg.BackupKeep))
		return nil
	}

	sort.Slice(output.Contents, func(i, j int) bool {
		return output.Contents[i].LastModified.After(*output.Contents[j].LastModified)
	})

	for _, obj := range output.Contents[cfg.BackupKeep:] {
		logging.Info("Deleting old backup", zap.String("key", *obj.Key))
		_, err := client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
			Bucket: aws.String(cfg.MediaS3Bucket),
			Key:    obj.Key,
		})
		if err != nil {
			logging.Warn("Failed to delete old backup",
				zap.String("key", *obj.Key), zap.Error(err))
		}
	}

	return nil
}
