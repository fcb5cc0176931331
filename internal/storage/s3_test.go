package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	bucket, key, err := ParseRef("s3://docs/documents/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "docs", bucket)
	assert.Equal(t, "documents/abc.pdf", key)

	for _, bad := range []string{
		"docs/documents/abc.pdf",
		"s3://",
		"s3://bucketonly",
		"s3://bucket/",
	} {
		_, _, err := ParseRef(bad)
		assert.Error(t, err, bad)
	}
}
