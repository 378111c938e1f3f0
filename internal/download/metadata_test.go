package download

import (
	"errors"
	"net/http"
	"testing"

	"github.com/ZebulonRouseFrantzich/jvman/internal/fault"
)

func TestFilenameFromDisposition(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "plain", header: "attachment; filename=test.bin", want: "test.bin"},
		{name: "quoted", header: `attachment; filename="OpenJDK17U-jdk_x64_linux_hotspot_17.0.9_9.tar.gz"`, want: "OpenJDK17U-jdk_x64_linux_hotspot_17.0.9_9.tar.gz"},
		{name: "extra_params", header: `attachment; filename="jdk.zip"; size=100`, want: "jdk.zip"},
		{name: "unparseable_falls_back_to_pattern", header: "attachment;; filename=jdk.tar.gz", want: "jdk.tar.gz"},
		{name: "strips_directories", header: `attachment; filename="../../etc/passwd"`, want: "passwd"},
		{name: "strips_windows_directories", header: `attachment; filename="C:\temp\jdk.zip"`, want: "jdk.zip"},
		{name: "dot_dot_only", header: `attachment; filename=".."`, want: ""},
		{name: "no_filename", header: "inline", want: ""},
		{name: "empty", header: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filenameFromDisposition(tt.header); got != tt.want {
				t.Errorf("filenameFromDisposition(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name        string
		length      int64
		disposition string
		wantErr     error
	}{
		{name: "complete", length: 4096, disposition: "attachment; filename=test.bin"},
		{name: "zero_length_is_valid", length: 0, disposition: "attachment; filename=empty.bin"},
		{name: "no_length", length: -1, disposition: "attachment; filename=test.bin", wantErr: ErrMissingLength},
		{name: "no_disposition", length: 10, wantErr: ErrMissingFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{ContentLength: tt.length, Header: http.Header{}}
			if tt.disposition != "" {
				resp.Header.Set("Content-Disposition", tt.disposition)
			}

			size, name, err := parseMetadata(resp)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if !fault.Is(err, fault.MissingMetadata) {
					t.Errorf("expected MissingMetadata kind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if size != tt.length || name == "" {
				t.Errorf("got size=%d name=%q", size, name)
			}
		})
	}
}
