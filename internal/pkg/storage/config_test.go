package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	cfg := &Config{}
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)

	key := cfg.ObjectKey("garment", "png", now)
	assert.True(t, strings.HasPrefix(key, "tryon/garment/2026/03/"), "unexpected key %q", key)
	assert.True(t, strings.HasSuffix(key, ".png"), "unexpected key %q", key)

	// A leading dot on the extension is tolerated.
	key = cfg.ObjectKey("generated", ".jpg", now)
	assert.True(t, strings.HasSuffix(key, ".jpg"), "unexpected key %q", key)

	// Keys embed a random component.
	assert.NotEqual(t, cfg.ObjectKey("garment", "png", now), cfg.ObjectKey("garment", "png", now))
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "public base url wins",
			cfg:  Config{PublicBaseURL: "https://cdn.example.com/", EndpointURL: "https://minio.local", BucketName: "tryon", Region: "us-east-1"},
			want: "https://cdn.example.com/tryon/garment/x.png",
		},
		{
			name: "custom endpoint is path-style",
			cfg:  Config{EndpointURL: "https://minio.local", BucketName: "tryon", Region: "us-east-1"},
			want: "https://minio.local/tryon/tryon/garment/x.png",
		},
		{
			name: "aws virtual-hosted fallback",
			cfg:  Config{BucketName: "tryon", Region: "eu-central-1"},
			want: "https://tryon.s3.eu-central-1.amazonaws.com/tryon/garment/x.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.PublicURL("tryon/garment/x.png"))
		})
	}
}
