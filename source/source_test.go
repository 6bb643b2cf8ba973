package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/darianmavgo/mktable/converters/common"
)

type fakeS3 struct {
	objects map[string]string
	calls   int
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		ref, bucket, key string
		ok               bool
	}{
		{"s3://uploads/2024/people.csv", "uploads", "2024/people.csv", true},
		{"s3://uploads/", "", "", false},
		{"s3://uploads", "", "", false},
		{"/tmp/people.csv", "", "", false},
	}
	for _, tt := range tests {
		bucket, key, ok := ParseS3URI(tt.ref)
		if bucket != tt.bucket || key != tt.key || ok != tt.ok {
			t.Errorf("ParseS3URI(%q) = %q, %q, %v", tt.ref, bucket, key, ok)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name("s3://b/dir/events.jsonl"); got != "events.jsonl" {
		t.Errorf("Name = %s", got)
	}
	if got := Name(filepath.Join("a", "b", "people.csv")); got != "people.csv" {
		t.Errorf("Name = %s", got)
	}
}

func TestOpenLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte("a\n1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	rc, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	data, err := ReadAll(context.Background(), rc, time.Second)
	if err != nil || string(data) != "a\n1\n" {
		t.Errorf("ReadAll = %q, %v", data, err)
	}

	if _, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOpenS3Object(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"uploads/people.csv": "name\nJohn\n"}}
	o := &Opener{S3: fake}

	rc, err := o.Open(context.Background(), "s3://uploads/people.csv")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "name\nJohn\n" {
		t.Errorf("body = %q", data)
	}

	_, err = o.Open(context.Background(), "s3://uploads/missing.csv")
	if !errors.Is(err, common.ErrStoreUnavailable) {
		t.Errorf("missing object error = %v", err)
	}
	if fake.calls != 2 {
		t.Errorf("GetObject calls = %d", fake.calls)
	}
}

func TestReadAllTimesOut(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	go func() {
		pw.Write([]byte("first chunk"))
	}()

	_, err := ReadAll(context.Background(), pr, 50*time.Millisecond)
	if !errors.Is(err, common.ErrScanTimeout) {
		t.Fatalf("error = %v, want ErrScanTimeout", err)
	}
	pr.Close()
}

func TestReadAllHonoursContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	defer pr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := ReadAll(ctx, pr, 0); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}
