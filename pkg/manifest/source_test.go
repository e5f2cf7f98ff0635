package manifest

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qcss-manifest.yaml")
	if err := os.WriteFile(path, []byte("card: q-1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)
	if src.Format != FormatYAML {
		t.Errorf("Format = %q, want yaml", src.Format)
	}
	m, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if id, _ := m.Lookup("card"); id != "q-1" {
		t.Errorf("card = %q", id)
	}
	if !strings.HasPrefix(src.String(), "file://") {
		t.Errorf("String() = %q", src.String())
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileSource(filepath.Join(dir, "nope.json")).Load(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
		if code := codeOf(t, err); code != "E202" {
			t.Errorf("code = %s, want E202", code)
		}
		if !stderrors.Is(err, os.ErrNotExist) {
			t.Error("error should wrap os.ErrNotExist")
		}
	})
}

type fakeS3 struct {
	objects map[string]string
	calls   []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.calls = append(f.calls, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, stderrors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"assets/qcss/manifest.json": `{"feed item": "q-abc"}`,
	}}

	src := NewS3Source(client, "assets", "qcss/manifest.json")
	m, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if id, _ := m.Lookup("feed item"); id != "q-abc" {
		t.Errorf("feed item = %q", id)
	}
	if len(client.calls) != 1 || client.calls[0] != "assets/qcss/manifest.json" {
		t.Errorf("calls = %v", client.calls)
	}
	if src.String() != "s3://assets/qcss/manifest.json" {
		t.Errorf("String() = %q", src.String())
	}

	t.Run("missing object", func(t *testing.T) {
		_, err := NewS3Source(client, "assets", "other.json").Load(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
		if code := codeOf(t, err); code != "E202" {
			t.Errorf("code = %s, want E202", code)
		}
	})
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client(S3ClientOptions{Region: "eu-west-1", Endpoint: "http://localhost:9000"})
	opts := client.Options()
	if opts.Region != "eu-west-1" {
		t.Errorf("Region = %q", opts.Region)
	}
	if !opts.UsePathStyle || aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("endpoint options = %v, %v", opts.UsePathStyle, aws.ToString(opts.BaseEndpoint))
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials(context.Background()); err == nil {
		t.Error("expected error without credentials")
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("creds = %+v", creds)
	}
}
