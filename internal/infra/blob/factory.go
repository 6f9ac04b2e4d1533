// Package blob selects a concrete photo blob store implementation from the
// process environment.
package blob

import (
	"context"
	"fmt"
	"os"

	"aquacore/internal/blob/core"
	"aquacore/internal/infra/blob/fs"
	"aquacore/internal/infra/blob/memory"
	"aquacore/internal/infra/blob/s3"
)

// Open selects a core.Store implementation using environment variables.
//
//	AQUACORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	AQUACORE_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	(S3 specific variables documented in the s3 package)
func Open(ctx context.Context) (core.Store, error) {
	driver := os.Getenv("AQUACORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(core.DriverFilesystem)
	}
	switch core.Driver(driver) {
	case core.DriverFilesystem:
		return fs.New(os.Getenv("AQUACORE_BLOB_FS_ROOT"))
	case core.DriverS3:
		return s3.OpenFromEnv(ctx)
	case core.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
