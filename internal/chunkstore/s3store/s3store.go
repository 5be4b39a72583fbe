// Package s3store is an object-store ChunkStore backend, one object per
// chunk under <prefix>/<chunk-uuid> in a configured bucket. Endpoint and
// path-style overrides support S3-compatible stores such as MinIO.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"chunkvault/internal/chunker"
	"chunkvault/internal/chunkid"
	"chunkvault/internal/vaulterr"
)

// Config names the bucket and connection parameters for an S3-compatible
// object store.
type Config struct {
	Bucket         string
	Prefix         string // key prefix chunks are stored under, no trailing slash
	Region         string
	Endpoint       string // non-empty for S3-compatible stores (e.g. MinIO)
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// Store persists chunks as objects in an S3 bucket.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New constructs a Store from cfg.
func New(ctx context.Context, cfg Config) (*Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("s3store: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Store{client: client, bucket: cfg.Bucket, prefix: strings.TrimSuffix(cfg.Prefix, "/")}, nil
}

func (s *Store) key(id chunkid.ChunkID) string {
	if s.prefix == "" {
		return id.String()
	}
	return s.prefix + "/" + id.String()
}

// WriteChunks uploads each chunk as its own object and returns their ids in
// input order. A failure on any chunk fails the whole call.
func (s *Store) WriteChunks(ctx context.Context, chunks []chunker.Chunk) ([]chunkid.ChunkID, error) {
	ids := make([]chunkid.ChunkID, len(chunks))
	for i, ch := range chunks {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key(ch.ID)),
			Body:   bytes.NewReader(ch.Data),
		})
		if err != nil {
			return nil, vaulterr.IO("put chunk object "+ch.ID.String(), err)
		}
		ids[i] = ch.ID
	}
	return ids, nil
}

// ReadChunk downloads the object for id.
func (s *Store) ReadChunk(ctx context.Context, id chunkid.ChunkID) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, vaulterr.NotFound("chunk " + id.String())
		}
		return nil, vaulterr.IO("get chunk object "+id.String(), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, vaulterr.IO("read chunk object body "+id.String(), err)
	}
	return data, nil
}

// DeleteChunk removes the object for id. S3's DeleteObject does not error on
// a missing key, matching the non-fatal-missing semantics diskstore
// implements explicitly.
func (s *Store) DeleteChunk(ctx context.Context, id chunkid.ChunkID) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return vaulterr.IO("delete chunk object "+id.String(), err)
	}
	return nil
}

// ListChunkIDs enumerates every chunk object under the configured prefix.
func (s *Store) ListChunkIDs(ctx context.Context) ([]chunkid.ChunkID, error) {
	var ids []chunkid.ChunkID
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, vaulterr.IO("list chunk objects", err)
		}
		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix+"/")
			id, err := chunkid.ParseChunkID(name)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}
	if ids == nil {
		ids = []chunkid.ChunkID{}
	}
	return ids, nil
}
