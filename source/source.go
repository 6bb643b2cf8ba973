// Package source reads input bytes from a local file or an S3 object.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/darianmavgo/mktable/converters/common"
)

const s3Scheme = "s3://"

// ObjectGetter is the part of the S3 client used here.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Opener opens input references. The zero value loads the default AWS
// configuration the first time an s3:// reference is opened.
type Opener struct {
	// S3 overrides the client built from the default AWS configuration.
	S3 ObjectGetter
	// Region and Endpoint tune the default client (Endpoint for MinIO or LocalStack).
	Region   string
	Endpoint string

	once    sync.Once
	initErr error
}

// Open returns a reader for ref using a zero Opener.
func Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	return (&Opener{}).Open(ctx, ref)
}

// Open returns a reader for a local path or an s3://bucket/key reference.
func (o *Opener) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	bucket, key, ok := ParseS3URI(ref)
	if !ok {
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		return f, nil
	}

	client, err := o.client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, common.WrapError(common.KindStoreUnavailable, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err))
	}
	return out.Body, nil
}

func (o *Opener) client(ctx context.Context) (ObjectGetter, error) {
	o.once.Do(func() {
		if o.S3 != nil {
			return
		}
		var opts []func(*config.LoadOptions) error
		if o.Region != "" {
			opts = append(opts, config.WithRegion(o.Region))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			o.initErr = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}
		var s3Opts []func(*s3.Options)
		if o.Endpoint != "" {
			s3Opts = append(s3Opts, func(so *s3.Options) {
				so.BaseEndpoint = aws.String(o.Endpoint)
				so.UsePathStyle = true
			})
		}
		o.S3 = s3.NewFromConfig(awsCfg, s3Opts...)
	})
	return o.S3, o.initErr
}

// ParseS3URI splits s3://bucket/key. ok is false for anything else.
func ParseS3URI(ref string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(ref, s3Scheme) {
		return "", "", false
	}
	rest := strings.TrimPrefix(ref, s3Scheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Name returns the file name part of ref, used as the default table name.
func Name(ref string) string {
	if _, key, ok := ParseS3URI(ref); ok {
		return path.Base(key)
	}
	return filepath.Base(ref)
}

// progressReader kicks a watchdog on every successful read.
type progressReader struct {
	r  io.Reader
	fn func()
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.fn != nil {
		p.fn()
	}
	return n, err
}

// ReadAll reads r to the end. It gives up with common.ErrScanTimeout when no
// bytes arrive for idle (idle <= 0 waits forever) and returns early when ctx
// is done. The caller should close r afterwards to release a stalled read.
func ReadAll(ctx context.Context, r io.Reader, idle time.Duration) ([]byte, error) {
	wd := common.NewWatchdog(idle)
	timedOut := wd.Start()
	defer wd.Stop()

	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, &progressReader{r: r, fn: wd.Kick})
		ch <- result{data: buf.Bytes(), err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("failed to read input: %w", res.err)
		}
		return res.data, nil
	case <-timedOut:
		return nil, fmt.Errorf("%w: no data for %v", wd.Err(), idle)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
