package blob

import (
	"context"
	"testing"

	"aquacore/internal/blob/core"
)

func TestOpenDefaultsToFilesystem(t *testing.T) {
	t.Setenv("AQUACORE_BLOB_DRIVER", "")
	t.Setenv("AQUACORE_BLOB_FS_ROOT", t.TempDir())
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("expected fs driver, got %s", store.Driver())
	}
}

func TestOpenMemoryDriver(t *testing.T) {
	t.Setenv("AQUACORE_BLOB_DRIVER", "memory")
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver, got %s", store.Driver())
	}
}

func TestOpenS3DriverRequiresBucket(t *testing.T) {
	t.Setenv("AQUACORE_BLOB_DRIVER", "s3")
	t.Setenv("AQUACORE_BLOB_S3_BUCKET", "")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Setenv("AQUACORE_BLOB_DRIVER", "tape")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
