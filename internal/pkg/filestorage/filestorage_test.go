package filestorage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	ls, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	name, err := ls.Save(context.Background(), "photo_1.jpg", strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "photo_1.jpg", name)
	assert.Equal(t, "/uploads/photo_1.jpg", ls.URL(name))

	content, err := os.ReadFile(ls.FullPath(name))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(content))

	// overwrite keeps the same name
	_, err = ls.Save(context.Background(), "photo_1.jpg", strings.NewReader("new"), 3, "image/jpeg")
	require.NoError(t, err)
	content, err = os.ReadFile(ls.FullPath(name))
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))

	require.NoError(t, ls.Delete(context.Background(), name))
	_, err = os.Stat(ls.FullPath(name))
	assert.True(t, os.IsNotExist(err))

	// deleting again is a no-op
	assert.NoError(t, ls.Delete(context.Background(), name))
}

func TestLocalStorageStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	name, err := ls.Save(context.Background(), "../../etc/evil.jpg", strings.NewReader("x"), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "evil.jpg", name)
	_, err = os.Stat(filepath.Join(dir, "evil.jpg"))
	assert.NoError(t, err)

	_, err = ls.Save(context.Background(), "..", strings.NewReader("x"), 1, "")
	assert.Error(t, err)
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    string
	deleted *s3.DeleteObjectInput
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = in
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorageSave(t *testing.T) {
	api := &fakeS3{}
	st := NewS3Storage(api, S3Config{Bucket: "camps", Region: "us-east-1"})

	name, err := st.Save(context.Background(), "photo_2.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "photo_2.png", name)
	require.NotNil(t, api.put)
	assert.Equal(t, "camps", aws.ToString(api.put.Bucket))
	assert.Equal(t, "photo_2.png", aws.ToString(api.put.Key))
	assert.Equal(t, "image/png", aws.ToString(api.put.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(api.put.ContentLength))
	assert.Equal(t, "png", api.body)
	assert.Equal(t, "https://camps.s3.us-east-1.amazonaws.com/photo_2.png", st.URL(name))
}

func TestS3StorageDelete(t *testing.T) {
	api := &fakeS3{}
	st := NewS3Storage(api, S3Config{Bucket: "camps", Endpoint: "http://minio:9000/"})

	require.NoError(t, st.Delete(context.Background(), "photo_2.png"))
	require.NotNil(t, api.deleted)
	assert.Equal(t, "photo_2.png", aws.ToString(api.deleted.Key))
	assert.Equal(t, "http://minio:9000/camps/x.jpg", st.URL("x.jpg"))

	assert.NoError(t, st.Delete(context.Background(), ""))
}

func TestS3StorageErrors(t *testing.T) {
	st := NewS3Storage(&fakeS3{err: errors.New("denied")}, S3Config{Bucket: "camps"})

	_, err := st.Save(context.Background(), "a.jpg", strings.NewReader("x"), 1, "")
	assert.ErrorContains(t, err, "denied")
	assert.ErrorContains(t, st.Delete(context.Background(), "a.jpg"), "denied")
}

func TestNewS3Client(t *testing.T) {
	client, err := NewS3Client(context.Background(), S3Config{
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.True(t, client.Options().UsePathStyle)
	assert.Equal(t, "http://localhost:9000", aws.ToString(client.Options().BaseEndpoint))
}
