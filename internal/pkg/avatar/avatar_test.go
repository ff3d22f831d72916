package avatar

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResolver(t *testing.T) {
	r, err := NewStaticResolver("https://cdn.school.edu/media/")
	require.NoError(t, err)

	key := "/avatars/ada.png"
	u, err := Resolve(context.Background(), r, &key)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "https://cdn.school.edu/media/avatars/ada.png", *u)

	_, err = NewStaticResolver("not a url")
	assert.Error(t, err)
}

func TestResolveBlankKey(t *testing.T) {
	r, err := NewStaticResolver("https://cdn.school.edu")
	require.NoError(t, err)

	blank := "  "
	u, err := Resolve(context.Background(), r, &blank)
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = Resolve(context.Background(), r, nil)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestS3ResolverPresignsOffline(t *testing.T) {
	r, err := NewS3Resolver(context.Background(), S3Config{
		Bucket:          "avatars",
		Region:          "eu-central-1",
		Endpoint:        "http://localhost:9000",
		PathStyle:       true,
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		PresignTTL:      5 * time.Minute,
	})
	require.NoError(t, err)

	u, err := r.URL(context.Background(), "instructors/7.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost:9000/avatars/instructors/7.png?"), u)
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.Contains(t, u, "X-Amz-Expires=300")
}

func TestS3ResolverRequiresBucket(t *testing.T) {
	_, err := NewS3Resolver(context.Background(), S3Config{})
	assert.Error(t, err)
}
