package scanner

import (
	"bytes"
	"io"
	"os"
)

// classifySampleSize is how many leading bytes are inspected.
const classifySampleSize = 512

// nonPrintableThreshold is the fraction of non-printable bytes above
// which a sample is treated as binary.
const nonPrintableThreshold = 0.30

// IsBinaryFile reports whether the file at path contains binary content,
// judged from its first 512 bytes.
func IsBinaryFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, classifySampleSize)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}
	return IsBinaryContent(buf[:n]), nil
}

// IsBinaryContent classifies a content sample. A NUL byte is decisive;
// otherwise a high share of non-printable bytes marks binary.
func IsBinaryContent(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonPrintable := 0
	for _, b := range sample {
		if b < 0x07 || (b > 0x0D && b < 0x20) || b == 0x7F {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > nonPrintableThreshold
}
