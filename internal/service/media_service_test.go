package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

func TestUploadStoresMedia(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "Uploader", false)

	media, err := f.Media.Upload(context.Background(), user, UploadInput{
		Kind:        domain.MediaKindVideo,
		FileName:    "dashcam.MP4",
		ContentType: "video/mp4",
		Size:        5,
		Body:        strings.NewReader("video"),
	})
	require.NoError(t, err)
	assert.Equal(t, user.UserID, media.OwnerID)
	assert.Equal(t, "/media/"+media.ID+".mp4", media.URL)

	stored, err := f.media.GetByID(context.Background(), media.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.SizeBytes)
}

func TestUploadValidation(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "Uploader", false)

	cases := []struct {
		name  string
		input UploadInput
		field string
	}{
		{"unknown kind", UploadInput{Kind: "audio", ContentType: "audio/mp3", Size: 1, Body: strings.NewReader("a")}, "type"},
		{"mismatched content type", UploadInput{Kind: domain.MediaKindImage, ContentType: "video/mp4", Size: 1, Body: strings.NewReader("a")}, "file"},
		{"empty file", UploadInput{Kind: domain.MediaKindImage, ContentType: "image/png", Size: 0, Body: strings.NewReader("")}, "file"},
		{"too large", UploadInput{Kind: domain.MediaKindImage, ContentType: "image/png", Size: 2048, Body: strings.NewReader("a")}, "file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Media.Upload(context.Background(), user, tc.input)
			domainErr := apperrors.ToDomainError(err)
			require.NotNil(t, domainErr)
			assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
			assert.Contains(t, domainErr.Details, tc.field)
		})
	}

	_, err := f.Media.Upload(context.Background(), nil, UploadInput{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
}
