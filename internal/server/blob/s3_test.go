package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/sheetglance/internal/common"
)

type fakeS3 struct {
	putIn  *s3.PutObjectInput
	putErr error

	getIn   *s3.GetObjectInput
	getBody string
	getErr  error

	delIn  *s3.DeleteObjectInput
	delErr error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putIn = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.getIn = params
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.getBody))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delIn = params
	if f.delErr != nil {
		return nil, f.delErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_Put(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "vault"}

	err := store.Put(context.Background(), "u1/f1_sales.xlsx", []byte("bytes"), "text/csv")
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if fake.putIn == nil || *fake.putIn.Bucket != "vault" || *fake.putIn.Key != "u1/f1_sales.xlsx" {
		t.Fatalf("unexpected put input: %+v", fake.putIn)
	}
	if *fake.putIn.ContentType != "text/csv" {
		t.Fatalf("unexpected content type: %v", *fake.putIn.ContentType)
	}
}

func TestS3Store_Put_Error(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{putErr: errors.New("boom")}
	store := &S3Store{client: fake, bucket: "vault"}

	if err := store.Put(context.Background(), "k", nil, ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestS3Store_Get(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{getBody: "payload"}
	store := &S3Store{client: fake, bucket: "vault"}

	data, err := store.Get(context.Background(), "u1/f1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected data: %s", data)
	}
	if *fake.getIn.Key != "u1/f1" {
		t.Fatalf("unexpected key: %v", *fake.getIn.Key)
	}
}

func TestS3Store_Get_NoSuchKey(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{getErr: &types.NoSuchKey{}}
	store := &S3Store{client: fake, bucket: "vault"}

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestS3Store_Delete(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{}
	store := &S3Store{client: fake, bucket: "vault"}

	if err := store.Delete(context.Background(), "u1/f1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if *fake.delIn.Key != "u1/f1" {
		t.Fatalf("unexpected key: %v", *fake.delIn.Key)
	}
}
