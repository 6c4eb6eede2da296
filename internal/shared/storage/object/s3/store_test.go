package s3

import (
	"testing"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "exports/abc/job-1/v1.docx", want: "exports/abc/job-1/v1.docx"},
		{name: "simple prefix", prefix: "resumes", key: "exports/v1.docx", want: "resumes/exports/v1.docx"},
		{name: "prefix and key slashes", prefix: "/resumes/", key: "/exports/v1.docx", want: "resumes/exports/v1.docx"},
		{name: "empty key", prefix: "resumes", key: "", want: "resumes"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestPutInputEncryption(t *testing.T) {
	s := &Store{bucket: "b", prefix: "p"}
	in := s.putInput("p/k.docx", "application/x", nil)
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 default, got %s", in.ServerSideEncryption)
	}

	s.kmsKeyID = "key-1"
	in = s.putInput("p/k.docx", "application/x", nil)
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || *in.SSEKMSKeyId != "key-1" {
		t.Fatalf("expected KMS encryption, got %s", in.ServerSideEncryption)
	}
}
