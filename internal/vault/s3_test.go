package vault

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 stores objects in memory. Multipart calls are not expected for
// the small payloads used here.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	headErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("not found")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart not supported")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart not supported")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

func TestS3Vault_BundleRoundTrip(t *testing.T) {
	client := newFakeS3()
	v := newS3VaultWithClient("offsite", "diary", "/backups/", client)

	data := `{"version":"1.0"}`
	if err := v.PutBundle("bundle-1.json", strings.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("PutBundle() error = %v", err)
	}

	if _, ok := client.objects["backups/bundles/bundle-1.json"]; !ok {
		t.Errorf("object keys = %v, want backups/bundles/bundle-1.json", keysOf(client.objects))
	}

	var buf bytes.Buffer
	if err := v.GetBundle("bundle-1.json", &buf); err != nil {
		t.Fatalf("GetBundle() error = %v", err)
	}
	if buf.String() != data {
		t.Errorf("GetBundle() = %q, want %q", buf.String(), data)
	}
}

func TestS3Vault_GetMissing(t *testing.T) {
	v := newS3VaultWithClient("offsite", "diary", "", newFakeS3())

	var buf bytes.Buffer
	if err := v.GetBundle("nope.json", &buf); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBundle() error = %v, want ErrNotFound", err)
	}
}

func TestS3Vault_ListBundles(t *testing.T) {
	client := newFakeS3()
	v := newS3VaultWithClient("offsite", "diary", "", client)

	for _, name := range []string{"bundle-b.json", "bundle-a.json.age"} {
		if err := v.PutBundle(name, strings.NewReader("x"), 1); err != nil {
			t.Fatalf("PutBundle(%s) error = %v", name, err)
		}
	}
	if err := v.PutSnapshot("snapshot-1.db", strings.NewReader("db"), 2); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}

	got, err := v.ListBundles()
	if err != nil {
		t.Fatalf("ListBundles() error = %v", err)
	}
	if len(got) != 2 || got[0] != "bundle-a.json.age" || got[1] != "bundle-b.json" {
		t.Errorf("ListBundles() = %v", got)
	}
	if _, ok := client.objects["snapshots/snapshot-1.db"]; !ok {
		t.Errorf("object keys = %v, want snapshots/snapshot-1.db", keysOf(client.objects))
	}
}

func TestS3Vault_SizeMismatch(t *testing.T) {
	v := newS3VaultWithClient("offsite", "diary", "", newFakeS3())

	if err := v.PutBundle("bundle.json", strings.NewReader("abc"), 10); err == nil {
		t.Error("PutBundle() expected size mismatch error")
	}
}

func TestS3Vault_ValidateSetup(t *testing.T) {
	client := newFakeS3()
	v := newS3VaultWithClient("offsite", "diary", "", client)

	if err := v.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}

	client.headErr = errors.New("forbidden")
	if err := v.ValidateSetup(); err == nil {
		t.Error("ValidateSetup() expected error when bucket is unreachable")
	}
}

func keysOf(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
