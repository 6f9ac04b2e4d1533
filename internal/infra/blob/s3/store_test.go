package s3

import (
	"context"
	"io"
	"strings"
	"testing"

	"aquacore/internal/blob/core"
)

func TestS3StoreMockLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMockForTests()
	if s.Driver() != core.DriverS3 {
		t.Fatalf("unexpected driver %s", s.Driver())
	}

	info, err := s.Put(ctx, "photos/tank1/a.jpg", strings.NewReader("jpegdata"), core.PutOptions{ContentType: "image/jpeg"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len("jpegdata")) {
		t.Fatalf("unexpected size %d", info.Size)
	}

	if _, err := s.Put(ctx, "photos/tank1/a.jpg", strings.NewReader("x"), core.PutOptions{}); err == nil {
		t.Fatalf("expected create-only semantics")
	}

	got, rc, err := s.Get(ctx, "photos/tank1/a.jpg")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "jpegdata" || got.ContentType != "image/jpeg" {
		t.Fatalf("unexpected object %q %+v", data, got)
	}

	head, err := s.Head(ctx, "photos/tank1/a.jpg")
	if err != nil || head.Size != info.Size {
		t.Fatalf("head: %v %+v", err, head)
	}

	ok, err := s.Delete(ctx, "photos/tank1/a.jpg")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if _, err := s.Head(ctx, "photos/tank1/a.jpg"); err == nil {
		t.Fatalf("expected missing after delete")
	}
}

func TestS3StoreListByPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMockForTests()
	for _, key := range []string{"photos/t1/a.jpg", "photos/t1/b.jpg", "photos/t2/c.jpg"} {
		if _, err := s.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := s.List(ctx, "photos/t1/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "photos/t1/a.jpg" {
		t.Fatalf("unexpected listing %+v", infos)
	}
}

func TestS3StorePresignURL(t *testing.T) {
	ctx := context.Background()
	s := NewMockForTests()
	u, err := s.PresignURL(ctx, "photos/a.jpg", core.SignedURLOptions{})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(u, "photos/a.jpg") {
		t.Fatalf("unexpected url %s", u)
	}
	if _, err := s.PresignURL(ctx, "photos/a.jpg", core.SignedURLOptions{Method: "PUT"}); err != core.ErrUnsupported {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket required error")
	}
}

func TestOpenFromEnvRequiresBucket(t *testing.T) {
	t.Setenv("AQUACORE_BLOB_S3_BUCKET", "")
	if _, err := OpenFromEnv(context.Background()); err == nil {
		t.Fatalf("expected error without bucket")
	}
}
