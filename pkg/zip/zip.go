package zip

import (
	"archive/zip"
	"bytes"
)

type File struct {
	Name string
	Data []byte
}

// Archive bundles the given files into a single zip blob. A file that fails
// to write aborts the archive.
func Archive(files []File) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, file := range files {
		w, err := zw.Create(file.Name)
		if err != nil {
			continue
		}
		if _, err := w.Write(file.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}
