package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	objects map[string][]byte
	types   map[string]string
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	f.types[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestParseDataURI(t *testing.T) {
	mime, data, err := ParseDataURI("data:text/plain;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mime)
	assert.Equal(t, []byte("hello"), data)

	for _, bad := range []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:image/png,rawdata",
		"data:image/png;base64,@@@",
	} {
		_, _, err := ParseDataURI(bad)
		assert.ErrorIs(t, err, ErrInvalidDataURI, bad)
	}
}

func TestThumbnailWidth(t *testing.T) {
	_, data, err := ParseDataURI(pngDataURI(t, 800, 400))
	require.NoError(t, err)

	thumb, err := Thumbnail(data)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailWidth, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestBucketStore_SavePhoto(t *testing.T) {
	fake := &fakePutter{objects: map[string][]byte{}, types: map[string]string{}}
	store := newBucketStore(fake, "photos", "https://cdn.example.com/")

	url, err := store.SavePhoto(context.Background(), "products", pngDataURI(t, 10, 10))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/products/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)
	require.Len(t, fake.objects, 2)

	var thumbKey string
	for k := range fake.objects {
		if strings.Contains(k, "/thumbnails/") {
			thumbKey = k
		}
	}
	require.NotEmpty(t, thumbKey)
	assert.Equal(t, "image/jpeg", fake.types[thumbKey])
}

func TestBucketStore_SavePhotoKeepsURLs(t *testing.T) {
	fake := &fakePutter{objects: map[string][]byte{}, types: map[string]string{}}
	store := newBucketStore(fake, "photos", "")

	url, err := store.SavePhoto(context.Background(), "cases", "https://example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.jpg", url)
	assert.Empty(t, fake.objects)
}

func TestBucketStore_SavePhotoRejectsNonImage(t *testing.T) {
	fake := &fakePutter{objects: map[string][]byte{}, types: map[string]string{}}
	store := newBucketStore(fake, "photos", "")

	_, err := store.SavePhoto(context.Background(), "cases", "data:image/png;base64,aGVsbG8=")
	assert.Error(t, err)
	assert.Empty(t, fake.objects)
}

func TestPassthrough(t *testing.T) {
	var s Store = Passthrough{}
	photo, err := s.SavePhoto(context.Background(), "products", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", photo)

	url, err := s.SaveFile(context.Background(), "k", []byte("x"), "application/pdf")
	require.NoError(t, err)
	assert.Empty(t, url)
}
