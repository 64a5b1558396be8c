package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/GTDGit/catalog_assistant/internal/models"
	"github.com/GTDGit/catalog_assistant/internal/utils"
)

// ObjectGetter is the subset of the S3 client used to fetch tables.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Table is a CSV table that can be read as a catalog or as a purchase log.
type Table struct {
	location string
	open     func(ctx context.Context) (io.ReadCloser, error)
}

// NewFileTable reads a CSV table from the local filesystem.
func NewFileTable(path string) *Table {
	return &Table{
		location: path,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// NewS3Table reads a CSV table from an S3 object.
func NewS3Table(client ObjectGetter, bucket, key string) *Table {
	return &Table{
		location: "s3://" + bucket + "/" + key,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			out, err := client.GetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			})
			if err != nil {
				return nil, err
			}
			return out.Body, nil
		},
	}
}

// ParseS3URI splits s3://bucket/key. ok is false for any other scheme.
func ParseS3URI(uri string) (bucket, key string, ok bool, err error) {
	if !strings.HasPrefix(uri, "s3://") {
		return "", "", false, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", true, fmt.Errorf("invalid s3 uri %q: %w", uri, err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", true, fmt.Errorf("invalid s3 uri %q: %w", uri, utils.ErrUnsupportedSource)
	}
	return u.Host, key, true, nil
}

// Location describes where the table is read from.
func (t *Table) Location() string {
	return t.location
}

// LoadProducts reads the table as a catalog.
func (t *Table) LoadProducts(ctx context.Context) ([]models.RawProduct, error) {
	rc, err := t.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", t.location, err)
	}
	defer rc.Close()
	return ParseCatalog(rc)
}

// LoadPurchases reads the table as a purchase log.
func (t *Table) LoadPurchases(ctx context.Context) ([]models.PurchaseRecord, error) {
	rc, err := t.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", t.location, err)
	}
	defer rc.Close()
	return ParsePurchases(rc)
}

// OpenTable resolves a file path or s3:// URL to a Table. newS3 is only
// called for s3 locations.
func OpenTable(location string, newS3 func() (ObjectGetter, error)) (*Table, error) {
	bucket, key, isS3, err := ParseS3URI(location)
	if err != nil {
		return nil, err
	}
	if !isS3 {
		return NewFileTable(location), nil
	}
	if newS3 == nil {
		return nil, fmt.Errorf("%s: %w", location, utils.ErrUnsupportedSource)
	}
	client, err := newS3()
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return NewS3Table(client, bucket, key), nil
}
