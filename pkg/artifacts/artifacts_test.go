package artifacts

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestLocalPut(t *testing.T) {
	dir := t.TempDir()
	sink := &Local{Dir: dir}
	ctx := context.Background()

	if err := sink.Put(ctx, "tables/all_sorts.csv", []byte("first")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := sink.Put(ctx, "tables/all_sorts.csv", []byte("second")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "tables", "all_sorts.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q", got)
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "tables"))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}

	if err := sink.Put(ctx, "../../escape.txt", []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); err != nil {
		t.Errorf("dot-dot name not confined to sink: %v", err)
	}
	if err := sink.Put(ctx, "", nil); err == nil {
		t.Error("empty name accepted")
	}
}

func TestMemoryAndMulti(t *testing.T) {
	a, b := NewMemory(), NewMemory()
	multi := Multi{a, b}
	if err := multi.Put(context.Background(), "graph.gml", []byte("g")); err != nil {
		t.Fatal(err)
	}
	for _, m := range []*Memory{a, b} {
		if got, ok := m.Get("graph.gml"); !ok || string(got) != "g" {
			t.Errorf("Get = %q, %v", got, ok)
		}
	}
	if names := a.Names(); len(names) != 1 || names[0] != "graph.gml" {
		t.Errorf("Names = %v", names)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Put(ctx, "x", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestS3Put(t *testing.T) {
	fake := &fakePutter{}
	sink := NewS3WithClient("models", "runs/42", fake)
	if err := sink.Put(context.Background(), "graph.json", []byte("{}")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	in := fake.inputs[0]
	if aws.ToString(in.Bucket) != "models" || aws.ToString(in.Key) != "runs/42/graph.json" {
		t.Errorf("bucket/key = %s/%s", aws.ToString(in.Bucket), aws.ToString(in.Key))
	}
	if aws.ToString(in.ContentType) != "application/json" {
		t.Errorf("content type = %s", aws.ToString(in.ContentType))
	}
	if fake.bodies[0] != "{}" {
		t.Errorf("body = %q", fake.bodies[0])
	}
	if loc := sink.Location("graph.json"); loc != "s3://models/runs/42/graph.json" {
		t.Errorf("Location = %s", loc)
	}

	fake.err = errors.New("denied")
	if err := sink.Put(context.Background(), "x.gml", nil); err == nil {
		t.Error("upload error swallowed")
	}
}
