package compat

import (
	"testing"

	"aquacore/testutil"
)

func TestCompatDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"the compatibility engine is a public library and must not depend on infrastructure")
}
