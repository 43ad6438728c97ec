package media

import (
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func header(size int64, contentType string) *multipart.FileHeader {
	h := &multipart.FileHeader{
		Filename: "photo.png",
		Size:     size,
		Header:   textproto.MIMEHeader{},
	}
	h.Header.Set("Content-Type", contentType)
	return h
}

func TestValidateImageHeader(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		ctype   string
		wantErr bool
	}{
		{"valid png", 1024, "image/png", false},
		{"valid jpeg", 1024, "image/jpeg", false},
		{"empty file", 0, "image/png", true},
		{"too large", 6 << 20, "image/png", true},
		{"wrong type", 1024, "application/pdf", true},
		{"video", 1024, "video/mp4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageHeader(header(tt.size, tt.ctype))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageHeader() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	url, err := store.Save(strings.NewReader("fake image bytes"), "me.PNG")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasPrefix(url, URLPrefix+"/") {
		t.Errorf("Save() url = %q, want prefix %q", url, URLPrefix+"/")
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("Save() url = %q, want lowercase .png extension", url)
	}

	name := strings.TrimPrefix(url, URLPrefix+"/")
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(b) != "fake image bytes" {
		t.Errorf("stored content = %q", b)
	}
}

func TestStore_SaveUniqueNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a, _ := store.Save(strings.NewReader("a"), "x.png")
	b, _ := store.Save(strings.NewReader("b"), "x.png")
	if a == b {
		t.Error("Save() should generate unique names for identical filenames")
	}
}
