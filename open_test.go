package qtlscan

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

const tinyMatrix = "marker,LG,cM,R1,R2\nPheno,,,1.5,2.5\nAX-1,LG1,0.0,C,J\n"

func TestOpenInputPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.csv")
	if err := os.WriteFile(path, []byte(tinyMatrix), 0644); err != nil {
		t.Fatal(err)
	}

	in, err := OpenInput(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	if in.DataType != DataTypeNoCompression {
		t.Errorf("Expected %s, got %s", DataTypeNoCompression, in.DataType)
	}

	got, err := io.ReadAll(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != tinyMatrix {
		t.Errorf("Content mismatch: %q", got)
	}
}

func TestOpenInputGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(tinyMatrix)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "matrix.csv.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	in, err := OpenInput(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	if in.DataType != DataTypeGzip {
		t.Errorf("Expected %s, got %s", DataTypeGzip, in.DataType)
	}

	got, err := io.ReadAll(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != tinyMatrix {
		t.Errorf("Content mismatch: %q", got)
	}
}

func TestOpenInputZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("matrix.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(tinyMatrix)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "matrix.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	in, err := OpenInput(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	if in.DataType != DataTypeZip {
		t.Errorf("Expected %s, got %s", DataTypeZip, in.DataType)
	}

	got, err := io.ReadAll(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != tinyMatrix {
		t.Errorf("Content mismatch: %q", got)
	}
}

func TestOpenInputGSWithoutClient(t *testing.T) {
	if _, err := OpenInput(context.Background(), "gs://bucket/matrix.csv", nil); err == nil {
		t.Fatal("Expected an error when no storage client is available")
	}
}

func TestSplitGSPath(t *testing.T) {
	for _, v := range []struct {
		Path   string
		Bucket string
		Object string
		Err    bool
	}{
		{"gs://bucket/a/b.csv", "bucket", "a/b.csv", false},
		{"gs://bucket", "", "", true},
		{"gs:///b.csv", "", "", true},
	} {
		bucket, object, err := SplitGSPath(v.Path)
		if (err != nil) != v.Err {
			t.Fatalf("%s: unexpected error state %v", v.Path, err)
		}
		if bucket != v.Bucket || object != v.Object {
			t.Errorf("%s: got %q %q", v.Path, bucket, object)
		}
	}
}

func TestDetectDataType(t *testing.T) {
	for _, v := range []struct {
		Head []byte
		DT   DataType
	}{
		{[]byte{0x1f, 0x8b, 0x08, 0, 0, 0}, DataTypeGzip},
		{[]byte{0x42, 0x5a, 0x68, 0x39}, DataTypeBZip2},
		{[]byte("marker"), DataTypeNoCompression},
		{[]byte{0x1f}, DataTypeNoCompression},
	} {
		if dt := DetectDataType(v.Head); dt != v.DT {
			t.Errorf("%v: expected %s, got %s", v.Head, v.DT, dt)
		}
	}
}

func TestDetermineDelimiter(t *testing.T) {
	tsv := []byte("marker\tLG\tcM\tR1\tR2\nPheno\t\t\t1.5\t2.5\nAX-1\tLG1\t0.0\tC\tJ\n")
	if d := DetermineDelimiter(tsv, ','); d != '\t' {
		t.Errorf("Expected tab, got %q", d)
	}

	// One space on every line, but the names are what contain it.
	spaced := []byte("marker,LG,cM,RIL 1,RIL2\nPheno row,,,1.5,2.5\nAX 1,LG1,0.0,C,J\n")
	if d := DetermineDelimiter(spaced, '\t'); d != ',' {
		t.Errorf("Expected comma, got %q", d)
	}
}
